package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rewardchain/x/rewards/types"
)

// Distributor spreads an emission over groups in proportion to their weight.
type Distributor struct {
	rewards types.GroupRewards
}

func NewDistributor(rewards types.GroupRewards) Distributor {
	return Distributor{rewards: rewards}
}

// DistributeWithWeights credits every ready group with a non-zero weight
// floor(amount * weight / sum of ready weights). Groups without stake or
// weight are reported as skipped. Results follow the order of groups.
func (d Distributor) DistributeWithWeights(ctx context.Context, amount math.Int, groups []types.WeightedGroup) ([]types.DistributionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	results := make([]types.DistributionResult, len(groups))
	ready := make([]bool, len(groups))
	totalWeight := math.ZeroInt()
	for i, wg := range groups {
		results[i] = types.DistributionResult{GroupID: wg.GroupID, Credited: math.ZeroInt()}
		if wg.Weight == 0 {
			results[i].Err = errorsmod.Wrapf(types.ErrGroupNotReady, "group %d has no weight", wg.GroupID)
			continue
		}
		stake, err := d.rewards.GroupStake(ctx, wg.GroupID)
		if err != nil {
			return nil, err
		}
		if !stake.IsPositive() {
			results[i].Err = errorsmod.Wrapf(types.ErrGroupNotReady, "group %d has no stake", wg.GroupID)
			continue
		}
		ready[i] = true
		totalWeight = totalWeight.Add(math.NewIntFromUint64(wg.Weight))
	}

	if !totalWeight.IsPositive() {
		return results, nil
	}
	for i, wg := range groups {
		if !ready[i] {
			continue
		}
		part, err := share(amount, wg.Weight, totalWeight)
		if err != nil {
			results[i].Err = err
			continue
		}
		if err := d.rewards.RewardGroup(ctx, wg.GroupID, part); err != nil {
			results[i].Err = err
			continue
		}
		results[i].Credited = part
	}
	return results, nil
}

// DistributeEqually gives every ready group the same share.
func (d Distributor) DistributeEqually(ctx context.Context, amount math.Int, groups []uint32) ([]types.DistributionResult, error) {
	weighted := make([]types.WeightedGroup, len(groups))
	for i, id := range groups {
		weighted[i] = types.WeightedGroup{GroupID: id, Weight: 1}
	}
	return d.DistributeWithWeights(ctx, amount, weighted)
}

// DistributeReward distributes amount plus any previously parked emission over
// groups using their configured weights. When none of the groups has a weight
// they share equally. Duplicate ids are ignored. Whatever is not credited,
// because no group was ready or because of rounding, is parked for the next
// call.
func (k Keeper) DistributeReward(ctx context.Context, amount math.Int, groups []uint32) ([]types.DistributionResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	var results []types.DistributionResult
	err := atomically(ctx, func(ctx context.Context) error {
		totals, err := k.GetTotals(ctx)
		if err != nil {
			return err
		}
		total, err := addInt(amount, totals.Undistributed)
		if err != nil {
			return err
		}

		weighted := make([]types.WeightedGroup, 0, len(groups))
		seen := make(map[uint32]struct{}, len(groups))
		unweighted := true
		for _, id := range groups {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			g, _, err := k.GetGroup(ctx, id)
			if err != nil {
				return err
			}
			weighted = append(weighted, types.WeightedGroup{GroupID: id, Weight: g.Weight})
			unweighted = unweighted && g.Weight == 0
		}
		if unweighted {
			for i := range weighted {
				weighted[i].Weight = 1
			}
		}

		results, err = NewDistributor(k).DistributeWithWeights(ctx, total, weighted)
		if err != nil {
			return err
		}

		credited := math.ZeroInt()
		for _, r := range results {
			credited = credited.Add(r.Credited)
		}
		// RewardGroup advanced Credited, reload before parking the rest.
		if totals, err = k.GetTotals(ctx); err != nil {
			return err
		}
		totals.Undistributed = total.Sub(credited)
		if err := k.Totals.Set(ctx, totals); err != nil {
			return err
		}
		if totals.Undistributed.IsPositive() {
			emit(ctx, sdk.NewEvent(types.EventRewardParked,
				sdk.NewAttribute(types.AttrAmount, totals.Undistributed.String()),
				sdk.NewAttribute(types.AttrGroupCount, strconv.Itoa(len(weighted))),
			))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Skipped() {
			k.metrics.GroupsRewarded.WithLabelValues(outcomeSkipped).Inc()
		} else {
			k.metrics.GroupsRewarded.WithLabelValues(outcomeCredited).Inc()
		}
	}
	return results, nil
}
