package keeper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rewardchain/x/rewards/types"
)

// EpochScheduler queues configuration changes and applies them at epoch
// boundaries. Epoch state lives in the keeper; ledger changes go through
// rewards.
type EpochScheduler struct {
	k       Keeper
	rewards types.RewardMechanism
}

func NewEpochScheduler(k Keeper, rewards types.RewardMechanism) EpochScheduler {
	return EpochScheduler{k: k, rewards: rewards}
}

// CurrentEpoch returns the epoch in progress.
func (s EpochScheduler) CurrentEpoch(ctx context.Context) (types.EpochState, error) {
	state, err := s.k.Epoch.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			params, err := s.k.GetParams(ctx)
			if err != nil {
				return types.EpochState{}, err
			}
			return types.NewEpochState(params.EpochDuration), nil
		}
		return types.EpochState{}, err
	}
	return state, nil
}

// PendingChanges returns the changes queued for the next boundary.
func (s EpochScheduler) PendingChanges(ctx context.Context) (types.EpochChanges, error) {
	changes, err := s.k.EpochChanges.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.EpochChanges{}, nil
		}
		return types.EpochChanges{}, err
	}
	return changes, nil
}

// updateQueue loads the queue, lets fn modify it and stores the result. It
// refuses to touch the queue while a boundary is being applied.
func (s EpochScheduler) updateQueue(ctx context.Context, fn func(*types.EpochChanges, types.Params) error) error {
	state, err := s.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	if state.Phase == types.PhaseApplying {
		return errorsmod.Wrapf(types.ErrEpochApplying, "epoch %d", state.Number)
	}
	params, err := s.k.GetParams(ctx)
	if err != nil {
		return err
	}
	changes, err := s.PendingChanges(ctx)
	if err != nil {
		return err
	}
	if err := fn(&changes, params); err != nil {
		return err
	}
	if err := s.k.EpochChanges.Set(ctx, changes); err != nil {
		return err
	}
	s.k.metrics.PendingChanges.Set(float64(len(changes.Changes)))
	return nil
}

func (s EpochScheduler) enqueue(ctx context.Context, c types.PendingChange) error {
	state, err := s.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	c.SubmittedEpoch = state.Number
	err = s.updateQueue(ctx, func(changes *types.EpochChanges, params types.Params) error {
		return changes.Enqueue(c, params.MaxChangesPerEpoch)
	})
	if err != nil {
		return err
	}
	emit(ctx, sdk.NewEvent(types.EventChangeQueued,
		sdk.NewAttribute(types.AttrChangeKind, string(c.Kind)),
		sdk.NewAttribute(types.AttrGroup, strconv.FormatUint(uint64(c.GroupID), 10)),
		sdk.NewAttribute(types.AttrCurrency, c.CurrencyID),
		sdk.NewAttribute(types.AttrEpoch, strconv.FormatUint(c.SubmittedEpoch, 10)),
	))
	return nil
}

// SetGroupWeight queues a weight change for group.
func (s EpochScheduler) SetGroupWeight(ctx context.Context, group uint32, weight uint64) error {
	return s.enqueue(ctx, types.PendingChange{Kind: types.ChangeGroupWeight, GroupID: group, Weight: weight})
}

// SetCurrencyGroup queues attaching currency to group.
func (s EpochScheduler) SetCurrencyGroup(ctx context.Context, currency string, group uint32) error {
	if err := validateCurrency(currency); err != nil {
		return err
	}
	return s.enqueue(ctx, types.PendingChange{Kind: types.ChangeCurrencyGroup, GroupID: group, CurrencyID: currency})
}

// SetDistributedReward queues the emission distributed at the end of each
// following epoch.
func (s EpochScheduler) SetDistributedReward(ctx context.Context, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	return s.updateQueue(ctx, func(changes *types.EpochChanges, _ types.Params) error {
		changes.Reward = &amount
		return nil
	})
}

// SetEpochDuration queues a new epoch duration.
func (s EpochScheduler) SetEpochDuration(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return errorsmod.Wrapf(types.ErrInvalidParams, "epoch duration %s", d)
	}
	return s.updateQueue(ctx, func(changes *types.EpochChanges, _ types.Params) error {
		changes.Duration = &d
		return nil
	})
}

// OnEpochTick closes the epoch once block time reaches its end: the epoch
// reward is distributed with the configuration of the closing epoch, then the
// queued changes are applied as one batch. A batch that fails is discarded.
func (s EpochScheduler) OnEpochTick(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime()

	state, err := s.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	if !state.Due(now) {
		return nil
	}

	logger := s.k.Logger(ctx)
	discarded := false
	err = atomically(ctx, func(ctx context.Context) error {
		state.Phase = types.PhaseApplying
		if err := s.k.Epoch.Set(ctx, state); err != nil {
			return err
		}
		changes, err := s.PendingChanges(ctx)
		if err != nil {
			return err
		}

		if state.Reward.IsPositive() {
			active, err := s.rewards.ActiveGroups(ctx)
			if err != nil {
				return err
			}
			if _, err := s.rewards.DistributeReward(ctx, state.Reward, active); err != nil {
				return err
			}
		}

		if err := atomically(ctx, func(ctx context.Context) error {
			return s.applyChanges(ctx, changes.Changes)
		}); err != nil {
			discarded = true
			dropped := describeChanges(changes.Changes)
			logger.Error("discarding epoch changes", "epoch", state.Number, "dropped", dropped, "err", err)
			emit(ctx, sdk.NewEvent(types.EventEpochChangesFailed,
				sdk.NewAttribute(types.AttrEpoch, strconv.FormatUint(state.Number, 10)),
				sdk.NewAttribute(types.AttrChangeCount, strconv.Itoa(len(changes.Changes))),
				sdk.NewAttribute(types.AttrDropped, dropped),
				sdk.NewAttribute(types.AttrError, err.Error()),
			))
		}
		if changes.Reward != nil {
			state.Reward = *changes.Reward
		}
		if changes.Duration != nil {
			state.Duration = *changes.Duration
		}

		state.Number++
		state.EndsAt = now.Add(state.Duration)
		state.Phase = types.PhaseAccumulating
		if err := s.k.Epoch.Set(ctx, state); err != nil {
			return err
		}
		if err := s.k.EpochChanges.Remove(ctx); err != nil {
			return err
		}

		emit(ctx, sdk.NewEvent(types.EventNewEpoch,
			sdk.NewAttribute(types.AttrEpoch, strconv.FormatUint(state.Number, 10)),
			sdk.NewAttribute(types.AttrEndsAt, state.EndsAt.UTC().Format(time.RFC3339)),
			sdk.NewAttribute(types.AttrReward, state.Reward.String()),
		))
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("new epoch", "epoch", state.Number, "ends_at", state.EndsAt, "reward", state.Reward.String())
	s.k.metrics.Epoch.Set(float64(state.Number))
	s.k.metrics.PendingChanges.Set(0)
	if discarded {
		s.k.metrics.DiscardedBatches.Inc()
	}
	return nil
}

// applyChanges applies the queued changes in submission order.
func (s EpochScheduler) applyChanges(ctx context.Context, changes []types.PendingChange) error {
	for i, c := range changes {
		var err error
		switch c.Kind {
		case types.ChangeGroupWeight:
			err = s.rewards.ApplyGroupWeight(ctx, c.GroupID, c.Weight)
		case types.ChangeCurrencyGroup:
			err = s.applyCurrencyGroup(ctx, c.CurrencyID, c.GroupID)
		default:
			err = fmt.Errorf("unknown change kind %q", c.Kind)
		}
		if err != nil {
			return errorsmod.Wrapf(err, "change %d (%s)", i, c.Kind)
		}
	}
	return nil
}

func describeChanges(changes []types.PendingChange) string {
	parts := make([]string, len(changes))
	for i, c := range changes {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

func (s EpochScheduler) applyCurrencyGroup(ctx context.Context, currency string, group uint32) error {
	current, attached, err := s.rewards.CurrencyGroup(ctx, currency)
	if err != nil {
		return err
	}
	if attached && current == group {
		return nil
	}
	return s.rewards.AttachCurrency(ctx, currency, group)
}
