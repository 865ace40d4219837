package types

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
)

// ChangeKind identifies a queued configuration intent.
type ChangeKind string

const (
	ChangeGroupWeight   ChangeKind = "group_weight"
	ChangeCurrencyGroup ChangeKind = "currency_group"
)

// EpochPhase is the scheduler state.
type EpochPhase string

const (
	PhaseAccumulating EpochPhase = "accumulating"
	PhaseApplying     EpochPhase = "applying"
)

// PendingChange is a configuration intent applied at the next epoch boundary.
type PendingChange struct {
	Kind           ChangeKind `json:"kind"`
	GroupID        uint32     `json:"group_id"`
	Weight         uint64     `json:"weight,omitempty"`
	CurrencyID     string     `json:"currency_id,omitempty"`
	SubmittedEpoch uint64     `json:"submitted_epoch"`
}

// String renders the change as kind:target:value.
func (c PendingChange) String() string {
	if c.Kind == ChangeGroupWeight {
		return fmt.Sprintf("%s:%d:%d", c.Kind, c.GroupID, c.Weight)
	}
	return fmt.Sprintf("%s:%s:%d", c.Kind, c.CurrencyID, c.GroupID)
}

// sameTarget reports whether both changes configure the same entity.
func (c PendingChange) sameTarget(o PendingChange) bool {
	if c.Kind != o.Kind {
		return false
	}
	if c.Kind == ChangeGroupWeight {
		return c.GroupID == o.GroupID
	}
	return c.CurrencyID == o.CurrencyID
}

// EpochChanges is the queue for the epoch in progress.
type EpochChanges struct {
	Changes  []PendingChange `json:"changes"`
	Reward   *math.Int       `json:"reward,omitempty"`
	Duration *time.Duration  `json:"duration,omitempty"`
}

// Enqueue adds c to the queue. A change for an entity that already has one
// queued replaces it in place; otherwise the queue must have room.
func (ec *EpochChanges) Enqueue(c PendingChange, capacity uint32) error {
	for i := range ec.Changes {
		if ec.Changes[i].sameTarget(c) {
			ec.Changes[i] = c
			return nil
		}
	}
	if uint32(len(ec.Changes)) >= capacity {
		return errorsmod.Wrapf(ErrMaxChangesPerEpoch, "queue holds %d changes", len(ec.Changes))
	}
	ec.Changes = append(ec.Changes, c)
	return nil
}

// IsEmpty reports whether nothing is queued.
func (ec EpochChanges) IsEmpty() bool {
	return len(ec.Changes) == 0 && ec.Reward == nil && ec.Duration == nil
}

// EpochState tracks the epoch in progress.
type EpochState struct {
	Number   uint64        `json:"number"`
	EndsAt   time.Time     `json:"ends_at"`
	Duration time.Duration `json:"duration"`
	// Reward is distributed over the active groups when the epoch closes.
	Reward math.Int   `json:"reward"`
	Phase  EpochPhase `json:"phase"`
}

// NewEpochState returns the state before the first boundary. A zero EndsAt
// makes the first tick close epoch 0 immediately.
func NewEpochState(duration time.Duration) EpochState {
	return EpochState{
		Duration: duration,
		Reward:   math.ZeroInt(),
		Phase:    PhaseAccumulating,
	}
}

// Due reports whether the boundary has been reached at now.
func (s EpochState) Due(now time.Time) bool {
	return !now.Before(s.EndsAt)
}
