package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"rewardchain/x/rewards/types"
)

func (k Keeper) positionKey(account sdk.AccAddress, currency string) (collections.Pair[string, string], error) {
	if err := sdk.VerifyAddressFormat(account); err != nil {
		return collections.Pair[string, string]{}, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
	}
	addr, err := k.addressCodec.BytesToString(account)
	if err != nil {
		return collections.Pair[string, string]{}, err
	}
	return collections.Join(addr, currency), nil
}

func (k Keeper) getPosition(ctx context.Context, key collections.Pair[string, string]) (types.Position, bool, error) {
	p, err := k.Positions.Get(ctx, key)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Position{}, false, nil
		}
		return types.Position{}, false, err
	}
	return p, true, nil
}

func (k Keeper) savePosition(ctx context.Context, key collections.Pair[string, string], p types.Position) error {
	if p.IsEmpty() {
		return k.Positions.Remove(ctx, key)
	}
	return k.Positions.Set(ctx, key, p)
}

// settle realizes the reward accrued since the last snapshot. It must run
// before the position stake changes.
func settle(p *types.Position, index math.LegacyDec) error {
	pending, err := accrued(p.Stake, p.RewardIndexSnapshot, index)
	if err != nil {
		return err
	}
	if p.Unclaimed, err = addInt(p.Unclaimed, pending); err != nil {
		return err
	}
	p.RewardIndexSnapshot = index
	return nil
}

func validateAmount(amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "amount %s", amount)
	}
	return nil
}

// DepositStake adds stake for account in currency. A zero amount is a no-op.
func (k Keeper) DepositStake(ctx context.Context, account sdk.AccAddress, currency string, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	err := k.changeStake(ctx, account, currency, amount, true, types.EventStakeDeposited)
	if err != nil {
		return err
	}
	k.metrics.StakeOps.WithLabelValues(opDeposit).Inc()
	return nil
}

// WithdrawStake removes stake for account in currency. A zero amount is a no-op.
func (k Keeper) WithdrawStake(ctx context.Context, account sdk.AccAddress, currency string, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	err := k.changeStake(ctx, account, currency, amount, false, types.EventStakeWithdrawn)
	if err != nil {
		return err
	}
	k.metrics.StakeOps.WithLabelValues(opWithdraw).Inc()
	return nil
}

func (k Keeper) changeStake(ctx context.Context, account sdk.AccAddress, currency string, amount math.Int, increase bool, event string) error {
	key, err := k.positionKey(account, currency)
	if err != nil {
		return err
	}
	return atomically(ctx, func(ctx context.Context) error {
		c, g, err := k.attachedCurrency(ctx, currency)
		if err != nil {
			return err
		}
		index, err := effectiveIndex(c, g)
		if err != nil {
			return err
		}
		p, found, err := k.getPosition(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			if !increase {
				return errorsmod.Wrapf(types.ErrInsufficientStake, "no %s stake for %s", currency, key.K1())
			}
			p = types.NewPosition(index)
		}

		if err := settle(&p, index); err != nil {
			return err
		}
		if increase {
			if p.Stake, err = addInt(p.Stake, amount); err != nil {
				return err
			}
			if c.TotalStake, err = addInt(c.TotalStake, amount); err != nil {
				return err
			}
		} else {
			if p.Stake, err = subStake(p.Stake, amount); err != nil {
				return err
			}
			if c.TotalStake, err = subStake(c.TotalStake, amount); err != nil {
				return err
			}
		}
		if err := addGroupStake(&g, amount, increase); err != nil {
			return err
		}

		if err := k.savePosition(ctx, key, p); err != nil {
			return err
		}
		if err := k.Currencies.Set(ctx, currency, c); err != nil {
			return err
		}
		if err := k.Groups.Set(ctx, g.ID, g); err != nil {
			return err
		}

		emit(ctx, sdk.NewEvent(event,
			sdk.NewAttribute(types.AttrAccount, key.K1()),
			sdk.NewAttribute(types.AttrCurrency, currency),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
			sdk.NewAttribute(types.AttrStake, p.Stake.String()),
		))
		return nil
	})
}

// ComputeReward returns the reward claimable by account in currency without
// changing state.
func (k Keeper) ComputeReward(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error) {
	key, err := k.positionKey(account, currency)
	if err != nil {
		return math.Int{}, err
	}
	c, g, err := k.attachedCurrency(ctx, currency)
	if err != nil {
		return math.Int{}, err
	}
	p, found, err := k.getPosition(ctx, key)
	if err != nil || !found {
		return math.ZeroInt(), err
	}
	index, err := effectiveIndex(c, g)
	if err != nil {
		return math.Int{}, err
	}
	if err := settle(&p, index); err != nil {
		return math.Int{}, err
	}
	return p.Unclaimed, nil
}

// ClaimReward settles the position and returns everything it has earned and
// not yet claimed. A second call without intervening distribution returns 0.
func (k Keeper) ClaimReward(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error) {
	key, err := k.positionKey(account, currency)
	if err != nil {
		return math.Int{}, err
	}
	claimed := math.ZeroInt()
	err = atomically(ctx, func(ctx context.Context) error {
		c, g, err := k.attachedCurrency(ctx, currency)
		if err != nil {
			return err
		}
		p, found, err := k.getPosition(ctx, key)
		if err != nil || !found {
			return err
		}
		index, err := effectiveIndex(c, g)
		if err != nil {
			return err
		}
		if err := settle(&p, index); err != nil {
			return err
		}
		if p.Claimed, err = addInt(p.Claimed, p.Unclaimed); err != nil {
			return err
		}
		totals, err := k.GetTotals(ctx)
		if err != nil {
			return err
		}
		if totals.Claimed, err = addInt(totals.Claimed, p.Unclaimed); err != nil {
			return err
		}
		claimed = p.Unclaimed
		p.Unclaimed = math.ZeroInt()

		if err := k.savePosition(ctx, key, p); err != nil {
			return err
		}
		if err := k.Totals.Set(ctx, totals); err != nil {
			return err
		}
		emit(ctx, sdk.NewEvent(types.EventRewardClaimed,
			sdk.NewAttribute(types.AttrAccount, key.K1()),
			sdk.NewAttribute(types.AttrCurrency, currency),
			sdk.NewAttribute(types.AttrAmount, claimed.String()),
		))
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}
	k.metrics.StakeOps.WithLabelValues(opClaim).Inc()
	return claimed, nil
}

// AccountStake returns the stake account holds in currency.
func (k Keeper) AccountStake(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error) {
	key, err := k.positionKey(account, currency)
	if err != nil {
		return math.Int{}, err
	}
	p, found, err := k.getPosition(ctx, key)
	if err != nil || !found {
		return math.ZeroInt(), err
	}
	return p.Stake, nil
}
