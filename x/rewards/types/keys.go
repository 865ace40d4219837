package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name
	ModuleName = "rewards"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	ParamsKey         = collections.NewPrefix("p_rewards")
	GroupKeyPrefix    = collections.NewPrefix("g_rewards")
	CurrencyKeyPrefix = collections.NewPrefix("c_rewards")
	PositionKeyPrefix = collections.NewPrefix("a_rewards")
	TotalsKey         = collections.NewPrefix("t_rewards")
	EpochStateKey     = collections.NewPrefix("e_rewards")
	EpochChangesKey   = collections.NewPrefix("ec_rewards")
)
