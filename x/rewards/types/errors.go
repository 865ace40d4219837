package types

import errorsmod "cosmossdk.io/errors"

// DONTCOVER

var (
	ErrInvalidAmount        = errorsmod.Register(ModuleName, 2, "invalid amount")
	ErrArithmetic           = errorsmod.Register(ModuleName, 3, "arithmetic error")
	ErrInsufficientStake    = errorsmod.Register(ModuleName, 4, "insufficient staked amount")
	ErrGroupNotReady        = errorsmod.Register(ModuleName, 5, "group has no stake")
	ErrCurrencyWithoutGroup = errorsmod.Register(ModuleName, 6, "currency is not attached to any group")
	ErrCurrencyNotAttached  = errorsmod.Register(ModuleName, 7, "currency is not attached to the given group")
	ErrCurrencyInSameGroup  = errorsmod.Register(ModuleName, 8, "currency already attached to the group")
	ErrMaxMovementsReached  = errorsmod.Register(ModuleName, 9, "too many currency movements")
	ErrMaxGroupsReached     = errorsmod.Register(ModuleName, 10, "max groups reached")
	ErrMaxChangesPerEpoch   = errorsmod.Register(ModuleName, 11, "max changes per epoch reached")
	ErrEpochApplying        = errorsmod.Register(ModuleName, 12, "epoch changes are being applied")
	ErrInvalidParams        = errorsmod.Register(ModuleName, 13, "invalid params")
	ErrInvalidGenesis       = errorsmod.Register(ModuleName, 14, "invalid genesis")
	ErrInvalidCurrency      = errorsmod.Register(ModuleName, 15, "invalid currency id")
)
