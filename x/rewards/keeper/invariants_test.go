package keeper_test

import (
	"encoding/json"
	"testing"

	math "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/keeper"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	return string(bz)
}

func TestStakeConsistencyInvariant(t *testing.T) {
	f := initFixture(t)
	f.attach(t, "xcur", groupA)
	f.deposit(t, accAddr("user"), "xcur", 10)

	_, broken := keeper.StakeConsistencyInvariant(f.keeper)(f.ctx)
	require.False(t, broken)

	g, _, err := f.keeper.GetGroup(f.ctx, groupA)
	require.NoError(t, err)
	g.TotalStake = math.NewInt(11)
	require.NoError(t, f.keeper.Groups.Set(f.ctx, groupA, g))

	msg, broken := keeper.StakeConsistencyInvariant(f.keeper)(f.ctx)
	require.True(t, broken)
	require.Contains(t, msg, "group 1")
}

func TestRewardConservationInvariant(t *testing.T) {
	f := initFixture(t)
	f.attach(t, "xcur", groupA)
	f.deposit(t, accAddr("user"), "xcur", 10)
	f.distribute(t, 100, groupA)

	_, broken := keeper.RewardConservationInvariant(f.keeper)(f.ctx)
	require.False(t, broken)

	totals, err := f.keeper.GetTotals(f.ctx)
	require.NoError(t, err)
	totals.Credited = math.NewInt(99)
	require.NoError(t, f.keeper.Totals.Set(f.ctx, totals))

	_, broken = keeper.RewardConservationInvariant(f.keeper)(f.ctx)
	require.True(t, broken)
}
