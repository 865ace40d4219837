package keeper

import (
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"

	"rewardchain/x/rewards/types"
)

// checked runs fn and turns a math overflow panic into ErrArithmetic.
func checked[T any](fn func() T) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorsmod.Wrapf(types.ErrArithmetic, "%v", r)
		}
	}()
	return fn(), nil
}

func addInt(a, b math.Int) (math.Int, error) {
	res, err := a.SafeAdd(b)
	if err != nil {
		return math.Int{}, errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}
	return res, nil
}

// subStake subtracts amount from have, failing when have is too small.
func subStake(have, amount math.Int) (math.Int, error) {
	if have.LT(amount) {
		return math.Int{}, errorsmod.Wrapf(types.ErrInsufficientStake, "have %s, need %s", have, amount)
	}
	return have.Sub(amount), nil
}

// boundIndex fails when a unit of stake would be owed more than the amount
// type can hold.
func boundIndex(index math.LegacyDec) error {
	whole, err := checked(index.TruncateInt)
	if err != nil {
		return err
	}
	if whole.BigInt().BitLen() > math.MaxBitLen {
		return errorsmod.Wrapf(types.ErrArithmetic, "reward index %s out of range", index)
	}
	return nil
}

// accrued is the reward earned by stake while the index moved from -> to.
func accrued(stake math.Int, from, to math.LegacyDec) (math.Int, error) {
	if !stake.IsPositive() || !to.GT(from) {
		return math.ZeroInt(), nil
	}
	return checked(func() math.Int {
		return to.Sub(from).MulInt(stake).TruncateInt()
	})
}

// share is floor(amount * weight / total).
func share(amount math.Int, weight uint64, total math.Int) (math.Int, error) {
	scaled, err := amount.SafeMul(math.NewIntFromUint64(weight))
	if err != nil {
		return math.Int{}, errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}
	return checked(func() math.Int { return scaled.Quo(total) })
}
