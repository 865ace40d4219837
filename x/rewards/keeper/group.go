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

// GetGroup returns the group and whether it exists.
func (k Keeper) GetGroup(ctx context.Context, id uint32) (types.Group, bool, error) {
	g, err := k.Groups.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Group{}, false, nil
		}
		return types.Group{}, false, err
	}
	return g, true, nil
}

// loadOrNewGroup returns the stored group or a fresh one if the group count
// allows it. The caller persists the result.
func (k Keeper) loadOrNewGroup(ctx context.Context, id uint32) (types.Group, error) {
	g, found, err := k.GetGroup(ctx, id)
	if err != nil || found {
		return g, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Group{}, err
	}
	var count uint32
	err = k.Groups.Walk(ctx, nil, func(uint32, types.Group) (bool, error) {
		count++
		return false, nil
	})
	if err != nil {
		return types.Group{}, err
	}
	if count >= params.MaxGroups {
		return types.Group{}, errorsmod.Wrapf(types.ErrMaxGroupsReached, "cannot create group %d", id)
	}
	return types.NewGroup(id), nil
}

// GroupStake returns the total stake attached to the group.
func (k Keeper) GroupStake(ctx context.Context, id uint32) (math.Int, error) {
	g, found, err := k.GetGroup(ctx, id)
	if err != nil {
		return math.Int{}, err
	}
	if !found {
		return math.ZeroInt(), nil
	}
	return g.TotalStake, nil
}

// IsReady reports whether the group has stake and can be rewarded.
func (k Keeper) IsReady(ctx context.Context, id uint32) (bool, error) {
	stake, err := k.GroupStake(ctx, id)
	if err != nil {
		return false, err
	}
	return stake.IsPositive(), nil
}

// RewardGroup credits amount to every unit of stake in the group.
func (k Keeper) RewardGroup(ctx context.Context, id uint32, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "reward %s", amount)
	}
	return atomically(ctx, func(ctx context.Context) error {
		g, found, err := k.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		if !found || !g.IsReady() {
			return errorsmod.Wrapf(types.ErrGroupNotReady, "group %d", id)
		}

		index, err := checked(func() math.LegacyDec {
			return g.RewardIndex.Add(math.LegacyNewDecFromInt(amount).QuoInt(g.TotalStake))
		})
		if err != nil {
			return err
		}
		if err := boundIndex(index); err != nil {
			return err
		}
		totals, err := k.GetTotals(ctx)
		if err != nil {
			return err
		}
		if totals.Credited, err = addInt(totals.Credited, amount); err != nil {
			return err
		}

		g.RewardIndex = index
		if err := k.Groups.Set(ctx, id, g); err != nil {
			return err
		}
		if err := k.Totals.Set(ctx, totals); err != nil {
			return err
		}

		emit(ctx, sdk.NewEvent(types.EventGroupRewarded,
			sdk.NewAttribute(types.AttrGroup, strconv.FormatUint(uint64(id), 10)),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
			sdk.NewAttribute(types.AttrStake, g.TotalStake.String()),
		))
		return nil
	})
}

// ApplyGroupWeight sets the share weight of the group, creating it if needed.
func (k Keeper) ApplyGroupWeight(ctx context.Context, id uint32, weight uint64) error {
	g, err := k.loadOrNewGroup(ctx, id)
	if err != nil {
		return err
	}
	g.Weight = weight
	return k.Groups.Set(ctx, id, g)
}

// ActiveGroups returns the ids of every group with a non-zero weight, in
// ascending order.
func (k Keeper) ActiveGroups(ctx context.Context) ([]uint32, error) {
	var ids []uint32
	err := k.Groups.Walk(ctx, nil, func(id uint32, g types.Group) (bool, error) {
		if g.Weight > 0 {
			ids = append(ids, id)
		}
		return false, nil
	})
	return ids, err
}

// addGroupStake moves the group stake up or down by amount.
func addGroupStake(g *types.Group, amount math.Int, increase bool) error {
	var err error
	if increase {
		g.TotalStake, err = addInt(g.TotalStake, amount)
	} else {
		g.TotalStake, err = subStake(g.TotalStake, amount)
	}
	return err
}
