package types

import (
	math "cosmossdk.io/math"
)

// Group is a top-level reward bucket. RewardIndex is the cumulative reward
// earned per unit of stake ever attached to the group and never decreases.
type Group struct {
	ID          uint32         `json:"id"`
	Weight      uint64         `json:"weight"`
	TotalStake  math.Int       `json:"total_stake"`
	RewardIndex math.LegacyDec `json:"reward_index"`
}

// NewGroup returns an empty group. It takes no share of epoch emissions until
// a weight is set.
func NewGroup(id uint32) Group {
	return Group{
		ID:          id,
		TotalStake:  math.ZeroInt(),
		RewardIndex: math.LegacyZeroDec(),
	}
}

// IsReady reports whether the group can receive rewards.
func (g Group) IsReady() bool { return g.TotalStake.IsPositive() }

// Currency aggregates the stake of every account holding it. While attached to
// GroupID its effective index is
//
//	CarriedRewardPerStake + (group.RewardIndex - IndexSnapshotAtJoin)
//
// CarriedRewardPerStake freezes what was earned under previous groups.
type Currency struct {
	ID                    string         `json:"id"`
	GroupID               uint32         `json:"group_id"`
	TotalStake            math.Int       `json:"total_stake"`
	CarriedRewardPerStake math.LegacyDec `json:"carried_reward_per_stake"`
	IndexSnapshotAtJoin   math.LegacyDec `json:"index_snapshot_at_join"`
	Movements             uint32         `json:"movements"`
}

// NewCurrency returns a currency joining group at the given group index.
func NewCurrency(id string, group Group) Currency {
	return Currency{
		ID:                    id,
		GroupID:               group.ID,
		TotalStake:            math.ZeroInt(),
		CarriedRewardPerStake: math.LegacyZeroDec(),
		IndexSnapshotAtJoin:   group.RewardIndex,
	}
}

// Position is the stake an account holds in one currency.
type Position struct {
	Stake               math.Int       `json:"stake"`
	RewardIndexSnapshot math.LegacyDec `json:"reward_index_snapshot"`
	// Unclaimed is reward already settled from the index but not yet claimed.
	Unclaimed math.Int `json:"unclaimed"`
	Claimed   math.Int `json:"claimed"`
}

// NewPosition returns an empty position snapshotted at index.
func NewPosition(index math.LegacyDec) Position {
	return Position{
		Stake:               math.ZeroInt(),
		RewardIndexSnapshot: index,
		Unclaimed:           math.ZeroInt(),
		Claimed:             math.ZeroInt(),
	}
}

// IsEmpty reports whether nothing is left to track for the position.
func (p Position) IsEmpty() bool {
	return p.Stake.IsZero() && p.Unclaimed.IsZero()
}

// RewardTotals are module-wide counters backing the conservation invariant.
type RewardTotals struct {
	// Credited is the sum of every amount applied to a group index.
	Credited math.Int `json:"credited"`
	// Claimed is the sum of every amount returned by a claim.
	Claimed math.Int `json:"claimed"`
	// Undistributed is emission that could not be credited yet and is added to
	// the next distribution.
	Undistributed math.Int `json:"undistributed"`
}

func NewRewardTotals() RewardTotals {
	return RewardTotals{
		Credited:      math.ZeroInt(),
		Claimed:       math.ZeroInt(),
		Undistributed: math.ZeroInt(),
	}
}

// WeightedGroup pairs a group with its share weight for one distribution.
type WeightedGroup struct {
	GroupID uint32 `json:"group_id"`
	Weight  uint64 `json:"weight"`
}

// DistributionResult reports what one group got out of a distribution. Err is
// set when the group was skipped, in which case Credited is zero.
type DistributionResult struct {
	GroupID  uint32   `json:"group_id"`
	Credited math.Int `json:"credited"`
	Err      error    `json:"-"`
}

// Skipped reports whether the group received nothing.
func (r DistributionResult) Skipped() bool { return r.Err != nil }
