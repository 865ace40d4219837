package types

import (
	"context"

	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GroupRewards credits emission to a group and reports group stake.
type GroupRewards interface {
	RewardGroup(ctx context.Context, group uint32, amount math.Int) error
	GroupStake(ctx context.Context, group uint32) (math.Int, error)
}

// AccountRewards is the per-account surface of the reward ledger.
type AccountRewards interface {
	DepositStake(ctx context.Context, account sdk.AccAddress, currency string, amount math.Int) error
	WithdrawStake(ctx context.Context, account sdk.AccAddress, currency string, amount math.Int) error
	ComputeReward(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error)
	ClaimReward(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error)
	AccountStake(ctx context.Context, account sdk.AccAddress, currency string) (math.Int, error)
}

// CurrencyGroupChange moves currencies between groups.
type CurrencyGroupChange interface {
	AttachCurrency(ctx context.Context, currency string, group uint32) error
	CurrencyGroup(ctx context.Context, currency string) (uint32, bool, error)
}

// DistributedRewards spreads an emission over several groups by weight.
type DistributedRewards interface {
	DistributeReward(ctx context.Context, amount math.Int, groups []uint32) ([]DistributionResult, error)
	// ActiveGroups returns the ids of every group with a non-zero weight.
	ActiveGroups(ctx context.Context) ([]uint32, error)
}

// RewardMechanism is the full capability surface consumed by the epoch
// scheduler.
type RewardMechanism interface {
	GroupRewards
	AccountRewards
	CurrencyGroupChange
	DistributedRewards

	IsReady(ctx context.Context, group uint32) (bool, error)
	ApplyGroupWeight(ctx context.Context, group uint32, weight uint64) error
}
