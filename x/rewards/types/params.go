package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
)

const (
	DefaultMaxGroups            uint32 = 32
	DefaultMaxChangesPerEpoch   uint32 = 16
	DefaultMaxCurrencyMovements uint32 = 16
	DefaultEpochDuration               = 24 * time.Hour
)

// Params defines the configuration surface of the rewards module.
type Params struct {
	// MaxGroups bounds how many groups the ledger tracks; every tracked group is
	// visited at each epoch boundary.
	MaxGroups uint32 `json:"max_groups" yaml:"max_groups"`
	// MaxChangesPerEpoch bounds the number of queued weight/currency changes.
	MaxChangesPerEpoch uint32 `json:"max_changes_per_epoch" yaml:"max_changes_per_epoch"`
	// EpochDuration is the duration of the first epoch. Later epochs keep the
	// duration in effect unless changed through the scheduler.
	EpochDuration time.Duration `json:"epoch_duration" yaml:"epoch_duration"`
	// MaxCurrencyMovements is how many times a currency may change group.
	MaxCurrencyMovements uint32 `json:"max_currency_movements" yaml:"max_currency_movements"`
}

func DefaultParams() Params {
	return Params{
		MaxGroups:            DefaultMaxGroups,
		MaxChangesPerEpoch:   DefaultMaxChangesPerEpoch,
		EpochDuration:        DefaultEpochDuration,
		MaxCurrencyMovements: DefaultMaxCurrencyMovements,
	}
}

// Validate checks param bounds.
func (p Params) Validate() error {
	if p.MaxGroups == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "max_groups must be > 0")
	}
	if p.MaxChangesPerEpoch == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "max_changes_per_epoch must be > 0")
	}
	if p.EpochDuration <= 0 {
		return errorsmod.Wrap(ErrInvalidParams, "epoch_duration must be positive")
	}
	return nil
}
