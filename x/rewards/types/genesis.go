package types

import math "cosmossdk.io/math"

// GenesisPosition is a position with its key.
type GenesisPosition struct {
	Account  string   `json:"account"`
	Currency string   `json:"currency"`
	Position Position `json:"position"`
}

// GenesisState is the full ledger.
type GenesisState struct {
	Params       Params            `json:"params"`
	Groups       []Group           `json:"groups"`
	Currencies   []Currency        `json:"currencies"`
	Positions    []GenesisPosition `json:"positions"`
	Totals       RewardTotals      `json:"totals"`
	Epoch        *EpochState       `json:"epoch,omitempty"`
	EpochChanges EpochChanges      `json:"epoch_changes"`
}

func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		Groups:     []Group{},
		Currencies: []Currency{},
		Positions:  []GenesisPosition{},
		Totals:     NewRewardTotals(),
	}
}

func isNonNegative(v math.Int) bool { return !v.IsNil() && !v.IsNegative() }

func isNonNegativeDec(v math.LegacyDec) bool { return !v.IsNil() && !v.IsNegative() }
