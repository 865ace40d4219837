package keeper_test

import (
	"math/big"
	"testing"

	math "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/types"
)

func maxInt() math.Int {
	v := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	return math.NewIntFromBigInt(v)
}

func TestRewardGroup(t *testing.T) {
	f := initFixture(t)
	user := accAddr("user")

	err := f.keeper.RewardGroup(f.ctx, 1, math.NewInt(10))
	require.ErrorIs(t, err, types.ErrGroupNotReady)

	f.attach(t, "xcur", 1)
	ready, err := f.keeper.IsReady(f.ctx, 1)
	require.NoError(t, err)
	require.False(t, ready)
	require.ErrorIs(t, f.keeper.RewardGroup(f.ctx, 1, math.NewInt(10)), types.ErrGroupNotReady)

	f.deposit(t, user, "xcur", 2000)
	ready, err = f.keeper.IsReady(f.ctx, 1)
	require.NoError(t, err)
	require.True(t, ready)

	require.NoError(t, f.keeper.RewardGroup(f.ctx, 1, math.NewInt(100)))
	g, found, err := f.keeper.GetGroup(f.ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, math.LegacyMustNewDecFromStr("0.05").String(), g.RewardIndex.String())

	totals, err := f.keeper.GetTotals(f.ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), totals.Credited.Int64())
	require.True(t, f.hasEvent(types.EventGroupRewarded))

	require.ErrorIs(t, f.keeper.RewardGroup(f.ctx, 1, math.NewInt(-1)), types.ErrInvalidAmount)
}

func TestRewardGroupIndexNeverDecreases(t *testing.T) {
	f := initFixture(t)
	f.attach(t, "xcur", 1)
	f.deposit(t, accAddr("user"), "xcur", 3)

	prev := math.LegacyZeroDec()
	for _, amount := range []int64{1, 0, 7, 2} {
		require.NoError(t, f.keeper.RewardGroup(f.ctx, 1, math.NewInt(amount)))
		g, _, err := f.keeper.GetGroup(f.ctx, 1)
		require.NoError(t, err)
		require.True(t, g.RewardIndex.GTE(prev))
		prev = g.RewardIndex
	}
}

func TestRewardGroupOverflow(t *testing.T) {
	f := initFixture(t)
	f.attach(t, "xcur", 1)
	f.deposit(t, accAddr("user"), "xcur", 1)

	// One unit of stake may be owed the whole amount range, not more.
	require.NoError(t, f.keeper.RewardGroup(f.ctx, 1, maxInt()))
	err := f.keeper.RewardGroup(f.ctx, 1, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrArithmetic)

	g, _, err := f.keeper.GetGroup(f.ctx, 1)
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDecFromInt(maxInt()).String(), g.RewardIndex.String())
	totals, err := f.keeper.GetTotals(f.ctx)
	require.NoError(t, err)
	require.Equal(t, maxInt().String(), totals.Credited.String())
}

func TestMaxGroups(t *testing.T) {
	f := initFixture(t)
	f.setParams(t, func(p *types.Params) { p.MaxGroups = 2 })

	f.attach(t, "acur", 1)
	f.attach(t, "bcur", 2)
	f.attach(t, "ccur", 2)
	require.ErrorIs(t, f.keeper.AttachCurrency(f.ctx, "dcur", 3), types.ErrMaxGroupsReached)
	require.ErrorIs(t, f.keeper.ApplyGroupWeight(f.ctx, 3, 1), types.ErrMaxGroupsReached)

	_, attached, err := f.keeper.CurrencyGroup(f.ctx, "dcur")
	require.NoError(t, err)
	require.False(t, attached)
}

func TestActiveGroups(t *testing.T) {
	f := initFixture(t)
	f.attach(t, "acur", 3)
	f.attach(t, "bcur", 1)

	// Attaching creates groups without a weight.
	ids, err := f.keeper.ActiveGroups(f.ctx)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, f.keeper.ApplyGroupWeight(f.ctx, 3, 2))
	require.NoError(t, f.keeper.ApplyGroupWeight(f.ctx, 2, 5))
	require.NoError(t, f.keeper.ApplyGroupWeight(f.ctx, 3, 0))

	ids, err = f.keeper.ActiveGroups(f.ctx)
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, ids)
}
