package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rewardchain/x/rewards/types"
)

// RegisterInvariants registers the rewards module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "stake-consistency", StakeConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reward-conservation", RewardConservationInvariant(k))
}

// AllInvariants runs every rewards invariant.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if res, stop := StakeConsistencyInvariant(k)(ctx); stop {
			return res, stop
		}
		return RewardConservationInvariant(k)(ctx)
	}
}

// StakeConsistencyInvariant checks that group stake equals the stake of its
// currencies and currency stake equals the stake of its positions.
func StakeConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		positionStake := make(map[string]math.Int)
		err := k.Positions.Walk(ctx, nil, func(key collections.Pair[string, string], p types.Position) (bool, error) {
			sum, ok := positionStake[key.K2()]
			if !ok {
				sum = math.ZeroInt()
			}
			positionStake[key.K2()] = sum.Add(p.Stake)
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake-consistency", err.Error()), true
		}

		currencyStake := make(map[uint32]math.Int)
		err = k.Currencies.Walk(ctx, nil, func(id string, c types.Currency) (bool, error) {
			held, ok := positionStake[id]
			if !ok {
				held = math.ZeroInt()
			}
			if !held.Equal(c.TotalStake) {
				broken = true
				msg += fmt.Sprintf("\tcurrency %s: stake %s, positions hold %s\n", id, c.TotalStake, held)
			}
			sum, ok := currencyStake[c.GroupID]
			if !ok {
				sum = math.ZeroInt()
			}
			currencyStake[c.GroupID] = sum.Add(c.TotalStake)
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake-consistency", err.Error()), true
		}

		err = k.Groups.Walk(ctx, nil, func(id uint32, g types.Group) (bool, error) {
			held, ok := currencyStake[id]
			if !ok {
				held = math.ZeroInt()
			}
			if !held.Equal(g.TotalStake) {
				broken = true
				msg += fmt.Sprintf("\tgroup %d: stake %s, currencies hold %s\n", id, g.TotalStake, held)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "stake-consistency", err.Error()), true
		}

		return sdk.FormatInvariant(types.ModuleName, "stake-consistency", msg), broken
	}
}

// RewardConservationInvariant checks that claimed plus still claimable reward
// never exceeds what was credited to groups.
func RewardConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		totals, err := k.GetTotals(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reward-conservation", err.Error()), true
		}

		owed := math.ZeroInt()
		err = k.Positions.Walk(ctx, nil, func(key collections.Pair[string, string], p types.Position) (bool, error) {
			c, g, err := k.attachedCurrency(ctx, key.K2())
			if err != nil {
				return true, err
			}
			index, err := effectiveIndex(c, g)
			if err != nil {
				return true, err
			}
			if err := settle(&p, index); err != nil {
				return true, err
			}
			owed = owed.Add(p.Unclaimed)
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reward-conservation", err.Error()), true
		}

		paid := totals.Claimed.Add(owed)
		broken := paid.GT(totals.Credited)
		return sdk.FormatInvariant(types.ModuleName, "reward-conservation",
			fmt.Sprintf("\tcredited %s, claimed %s, claimable %s\n", totals.Credited, totals.Claimed, owed)), broken
	}
}
