package types

import (
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Validate checks the genesis ledger is internally consistent: every currency
// sits in a known group, group stake equals the stake of its currencies, and
// currency stake equals the stake of its positions.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if uint32(len(gs.Groups)) > gs.Params.MaxGroups {
		return errorsmod.Wrapf(ErrInvalidGenesis, "%d groups exceed max_groups %d", len(gs.Groups), gs.Params.MaxGroups)
	}

	groupStake := make(map[uint32]math.Int, len(gs.Groups))
	for _, g := range gs.Groups {
		if _, ok := groupStake[g.ID]; ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate group %d", g.ID)
		}
		if !isNonNegative(g.TotalStake) || !isNonNegativeDec(g.RewardIndex) {
			return errorsmod.Wrapf(ErrInvalidGenesis, "group %d: negative stake or index", g.ID)
		}
		groupStake[g.ID] = math.ZeroInt()
	}

	currencyStake := make(map[string]math.Int, len(gs.Currencies))
	for _, c := range gs.Currencies {
		if err := sdk.ValidateDenom(c.ID); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "currency %q: %s", c.ID, err)
		}
		if _, ok := currencyStake[c.ID]; ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate currency %q", c.ID)
		}
		sum, ok := groupStake[c.GroupID]
		if !ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "currency %q: unknown group %d", c.ID, c.GroupID)
		}
		if !isNonNegative(c.TotalStake) || !isNonNegativeDec(c.CarriedRewardPerStake) || !isNonNegativeDec(c.IndexSnapshotAtJoin) {
			return errorsmod.Wrapf(ErrInvalidGenesis, "currency %q: negative stake or index", c.ID)
		}
		groupStake[c.GroupID] = sum.Add(c.TotalStake)
		currencyStake[c.ID] = math.ZeroInt()
	}
	for _, g := range gs.Groups {
		if !groupStake[g.ID].Equal(g.TotalStake) {
			return errorsmod.Wrapf(ErrInvalidGenesis, "group %d: stake %s, currencies hold %s", g.ID, g.TotalStake, groupStake[g.ID])
		}
	}

	seen := make(map[string]struct{}, len(gs.Positions))
	for _, p := range gs.Positions {
		if _, err := sdk.AccAddressFromBech32(p.Account); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "position account %q: %s", p.Account, err)
		}
		key := p.Account + "/" + p.Currency
		if _, ok := seen[key]; ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate position %s", key)
		}
		seen[key] = struct{}{}
		sum, ok := currencyStake[p.Currency]
		if !ok {
			return errorsmod.Wrapf(ErrInvalidGenesis, "position %s: unknown currency", key)
		}
		pos := p.Position
		if !isNonNegative(pos.Stake) || !isNonNegative(pos.Unclaimed) || !isNonNegative(pos.Claimed) || !isNonNegativeDec(pos.RewardIndexSnapshot) {
			return errorsmod.Wrapf(ErrInvalidGenesis, "position %s: negative field", key)
		}
		currencyStake[p.Currency] = sum.Add(pos.Stake)
	}
	for _, c := range gs.Currencies {
		if !currencyStake[c.ID].Equal(c.TotalStake) {
			return errorsmod.Wrapf(ErrInvalidGenesis, "currency %q: stake %s, positions hold %s", c.ID, c.TotalStake, currencyStake[c.ID])
		}
	}

	t := gs.Totals
	if !isNonNegative(t.Credited) || !isNonNegative(t.Claimed) || !isNonNegative(t.Undistributed) {
		return errorsmod.Wrap(ErrInvalidGenesis, "totals: negative counter")
	}
	if t.Claimed.GT(t.Credited) {
		return errorsmod.Wrapf(ErrInvalidGenesis, "totals: claimed %s exceeds credited %s", t.Claimed, t.Credited)
	}

	if uint32(len(gs.EpochChanges.Changes)) > gs.Params.MaxChangesPerEpoch {
		return errorsmod.Wrapf(ErrInvalidGenesis, "%d queued changes exceed max_changes_per_epoch", len(gs.EpochChanges.Changes))
	}
	for i, c := range gs.EpochChanges.Changes {
		switch c.Kind {
		case ChangeGroupWeight:
		case ChangeCurrencyGroup:
			if err := sdk.ValidateDenom(c.CurrencyID); err != nil {
				return errorsmod.Wrapf(ErrInvalidGenesis, "queued change %d: currency %q: %s", i, c.CurrencyID, err)
			}
		default:
			return errorsmod.Wrapf(ErrInvalidGenesis, "queued change %d: unknown kind %q", i, c.Kind)
		}
	}
	if r := gs.EpochChanges.Reward; r != nil && !isNonNegative(*r) {
		return errorsmod.Wrap(ErrInvalidGenesis, "queued reward: negative amount")
	}
	if d := gs.EpochChanges.Duration; d != nil && *d <= 0 {
		return errorsmod.Wrapf(ErrInvalidGenesis, "queued duration %s must be positive", *d)
	}
	if gs.Epoch != nil {
		if gs.Epoch.Duration <= 0 {
			return errorsmod.Wrap(ErrInvalidGenesis, "epoch: duration must be positive")
		}
		if !isNonNegative(gs.Epoch.Reward) {
			return errorsmod.Wrap(ErrInvalidGenesis, "epoch: negative reward")
		}
		if gs.Epoch.Phase != PhaseAccumulating {
			return errorsmod.Wrapf(ErrInvalidGenesis, "epoch: phase %q", gs.Epoch.Phase)
		}
	}
	return nil
}
