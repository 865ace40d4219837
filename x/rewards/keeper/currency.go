package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rewardchain/x/rewards/types"
)

func validateCurrency(id string) error {
	if err := sdk.ValidateDenom(id); err != nil {
		return errorsmod.Wrap(types.ErrInvalidCurrency, err.Error())
	}
	return nil
}

// GetCurrency returns the currency and whether it has ever been attached.
func (k Keeper) GetCurrency(ctx context.Context, id string) (types.Currency, bool, error) {
	c, err := k.Currencies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Currency{}, false, nil
		}
		return types.Currency{}, false, err
	}
	return c, true, nil
}

// CurrencyGroup returns the group the currency is attached to.
func (k Keeper) CurrencyGroup(ctx context.Context, id string) (uint32, bool, error) {
	c, found, err := k.GetCurrency(ctx, id)
	if err != nil || !found {
		return 0, false, err
	}
	return c.GroupID, true, nil
}

// attachedCurrency loads a currency and its group, failing for currencies that
// were never attached.
func (k Keeper) attachedCurrency(ctx context.Context, id string) (types.Currency, types.Group, error) {
	c, found, err := k.GetCurrency(ctx, id)
	if err != nil {
		return types.Currency{}, types.Group{}, err
	}
	if !found {
		return types.Currency{}, types.Group{}, errorsmod.Wrapf(types.ErrCurrencyWithoutGroup, "currency %q", id)
	}
	g, found, err := k.GetGroup(ctx, c.GroupID)
	if err != nil {
		return types.Currency{}, types.Group{}, err
	}
	if !found {
		return types.Currency{}, types.Group{}, errorsmod.Wrapf(types.ErrCurrencyWithoutGroup, "currency %q: group %d missing", id, c.GroupID)
	}
	return c, g, nil
}

// effectiveIndex is the reward per unit of stake the currency has earned over
// its whole lifetime.
func effectiveIndex(c types.Currency, g types.Group) (math.LegacyDec, error) {
	return checked(func() math.LegacyDec {
		return c.CarriedRewardPerStake.Add(g.RewardIndex.Sub(c.IndexSnapshotAtJoin))
	})
}

// AttachCurrency attaches the currency to group. The first attachment joins
// the group; later ones move the currency and its stake.
func (k Keeper) AttachCurrency(ctx context.Context, id string, group uint32) error {
	if err := validateCurrency(id); err != nil {
		return err
	}
	c, found, err := k.GetCurrency(ctx, id)
	if err != nil {
		return err
	}
	if found {
		return k.MoveCurrency(ctx, id, c.GroupID, group)
	}

	return atomically(ctx, func(ctx context.Context) error {
		g, err := k.loadOrNewGroup(ctx, group)
		if err != nil {
			return err
		}
		if err := k.Groups.Set(ctx, group, g); err != nil {
			return err
		}
		if err := k.Currencies.Set(ctx, id, types.NewCurrency(id, g)); err != nil {
			return err
		}
		emit(ctx, sdk.NewEvent(types.EventCurrencyAttached,
			sdk.NewAttribute(types.AttrCurrency, id),
			sdk.NewAttribute(types.AttrGroup, strconv.FormatUint(uint64(group), 10)),
		))
		return nil
	})
}

// MoveCurrency moves the currency from one group to another. Reward earned in
// from is frozen into the carried baseline so positions lose nothing.
//
// Moves of a currency with stake are bounded by Params.MaxCurrencyMovements;
// a currency without stake always moves.
func (k Keeper) MoveCurrency(ctx context.Context, id string, from, to uint32) error {
	err := atomically(ctx, func(ctx context.Context) error {
		c, fromGroup, err := k.attachedCurrency(ctx, id)
		if err != nil {
			return err
		}
		if c.GroupID != from {
			return errorsmod.Wrapf(types.ErrCurrencyNotAttached, "currency %q is in group %d, not %d", id, c.GroupID, from)
		}
		if from == to {
			return errorsmod.Wrapf(types.ErrCurrencyInSameGroup, "currency %q group %d", id, to)
		}

		counted := c.TotalStake.IsPositive()
		if counted {
			params, err := k.GetParams(ctx)
			if err != nil {
				return err
			}
			if c.Movements >= params.MaxCurrencyMovements {
				return errorsmod.Wrapf(types.ErrMaxMovementsReached, "currency %q moved %d times", id, c.Movements)
			}
		}

		toGroup, err := k.loadOrNewGroup(ctx, to)
		if err != nil {
			return err
		}

		carried, err := effectiveIndex(c, fromGroup)
		if err != nil {
			return err
		}
		if err := addGroupStake(&fromGroup, c.TotalStake, false); err != nil {
			return err
		}
		if err := addGroupStake(&toGroup, c.TotalStake, true); err != nil {
			return err
		}

		c.CarriedRewardPerStake = carried
		c.GroupID = to
		c.IndexSnapshotAtJoin = toGroup.RewardIndex
		if counted {
			c.Movements++
		}

		if err := k.Groups.Set(ctx, from, fromGroup); err != nil {
			return err
		}
		if err := k.Groups.Set(ctx, to, toGroup); err != nil {
			return err
		}
		if err := k.Currencies.Set(ctx, id, c); err != nil {
			return err
		}

		emit(ctx, sdk.NewEvent(types.EventCurrencyMoved,
			sdk.NewAttribute(types.AttrCurrency, id),
			sdk.NewAttribute(types.AttrFromGroup, strconv.FormatUint(uint64(from), 10)),
			sdk.NewAttribute(types.AttrToGroup, strconv.FormatUint(uint64(to), 10)),
			sdk.NewAttribute(types.AttrStake, c.TotalStake.String()),
		))
		return nil
	})
	if err != nil {
		return err
	}
	k.metrics.CurrencyMoves.Inc()
	return nil
}
