package keeper_test

import (
	"context"
	"sort"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rewardchain/x/rewards/types"
)

type distribution struct {
	amount math.Int
	groups []uint32
}

// MockRewards is an in-memory types.RewardMechanism recording every call.
type MockRewards struct {
	Stakes     map[uint32]math.Int
	Weights    map[uint32]uint64
	Currencies map[string]uint32
	Rewarded   map[uint32][]math.Int

	Distributions []distribution
	FailReward    map[uint32]error
	// OnApplyWeight runs before a weight change is recorded.
	OnApplyWeight func(ctx context.Context, group uint32) error
}

var _ types.RewardMechanism = (*MockRewards)(nil)

func NewMockRewards() *MockRewards {
	return &MockRewards{
		Stakes:     make(map[uint32]math.Int),
		Weights:    make(map[uint32]uint64),
		Currencies: make(map[string]uint32),
		Rewarded:   make(map[uint32][]math.Int),
		FailReward: make(map[uint32]error),
	}
}

func (m *MockRewards) RewardGroup(_ context.Context, group uint32, amount math.Int) error {
	if err := m.FailReward[group]; err != nil {
		return err
	}
	if !m.Stakes[group].IsPositive() {
		return types.ErrGroupNotReady
	}
	m.Rewarded[group] = append(m.Rewarded[group], amount)
	return nil
}

func (m *MockRewards) GroupStake(_ context.Context, group uint32) (math.Int, error) {
	if s, ok := m.Stakes[group]; ok {
		return s, nil
	}
	return math.ZeroInt(), nil
}

func (m *MockRewards) IsReady(ctx context.Context, group uint32) (bool, error) {
	s, err := m.GroupStake(ctx, group)
	return s.IsPositive(), err
}

func (m *MockRewards) ApplyGroupWeight(ctx context.Context, group uint32, weight uint64) error {
	if m.OnApplyWeight != nil {
		if err := m.OnApplyWeight(ctx, group); err != nil {
			return err
		}
	}
	m.Weights[group] = weight
	return nil
}

func (m *MockRewards) DepositStake(context.Context, sdk.AccAddress, string, math.Int) error {
	return nil
}

func (m *MockRewards) WithdrawStake(context.Context, sdk.AccAddress, string, math.Int) error {
	return nil
}

func (m *MockRewards) ComputeReward(context.Context, sdk.AccAddress, string) (math.Int, error) {
	return math.ZeroInt(), nil
}

func (m *MockRewards) ClaimReward(context.Context, sdk.AccAddress, string) (math.Int, error) {
	return math.ZeroInt(), nil
}

func (m *MockRewards) AccountStake(context.Context, sdk.AccAddress, string) (math.Int, error) {
	return math.ZeroInt(), nil
}

func (m *MockRewards) AttachCurrency(_ context.Context, currency string, group uint32) error {
	if current, ok := m.Currencies[currency]; ok && current == group {
		return errorsmod.Wrap(types.ErrCurrencyInSameGroup, currency)
	}
	m.Currencies[currency] = group
	return nil
}

func (m *MockRewards) CurrencyGroup(_ context.Context, currency string) (uint32, bool, error) {
	g, ok := m.Currencies[currency]
	return g, ok, nil
}

func (m *MockRewards) DistributeReward(_ context.Context, amount math.Int, groups []uint32) ([]types.DistributionResult, error) {
	m.Distributions = append(m.Distributions, distribution{amount: amount, groups: append([]uint32(nil), groups...)})
	return nil, nil
}

func (m *MockRewards) ActiveGroups(context.Context) ([]uint32, error) {
	var ids []uint32
	for id, w := range m.Weights {
		if w > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
