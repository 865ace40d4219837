package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/core/address"
	math "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cometbft/cometbft/crypto/tmhash"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/keeper"
	"rewardchain/x/rewards/types"
)

type fixture struct {
	ctx          sdk.Context
	keeper       keeper.Keeper
	addressCodec address.Codec
	registry     *prometheus.Registry
}

func initFixture(t *testing.T) *fixture {
	t.Helper()

	addressCodec := addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	storeService := runtime.NewKVStoreService(storeKey)
	ctx := testutil.DefaultContextWithDB(t, storeKey, storetypes.NewTransientStoreKey("transient_test")).Ctx
	ctx = ctx.WithBlockTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	registry := prometheus.NewRegistry()
	k := keeper.NewKeeper(storeService, addressCodec, registry)

	// Initialize params
	if err := k.Params.Set(ctx, types.DefaultParams()); err != nil {
		t.Fatalf("failed to set params: %v", err)
	}

	return &fixture{
		ctx:          ctx,
		keeper:       k,
		addressCodec: addressCodec,
		registry:     registry,
	}
}

func accAddr(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

func (f *fixture) setParams(t *testing.T, fn func(*types.Params)) {
	t.Helper()
	p := types.DefaultParams()
	fn(&p)
	require.NoError(t, f.keeper.SetParams(f.ctx, p))
}

func (f *fixture) attach(t *testing.T, currency string, group uint32) {
	t.Helper()
	require.NoError(t, f.keeper.AttachCurrency(f.ctx, currency, group))
}

func (f *fixture) deposit(t *testing.T, account sdk.AccAddress, currency string, amount int64) {
	t.Helper()
	require.NoError(t, f.keeper.DepositStake(f.ctx, account, currency, math.NewInt(amount)))
}

func (f *fixture) distribute(t *testing.T, amount int64, groups ...uint32) []types.DistributionResult {
	t.Helper()
	results, err := f.keeper.DistributeReward(f.ctx, math.NewInt(amount), groups)
	require.NoError(t, err)
	return results
}

func (f *fixture) requireReward(t *testing.T, account sdk.AccAddress, currency string, expected int64) {
	t.Helper()
	reward, err := f.keeper.ComputeReward(f.ctx, account, currency)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(expected).String(), reward.String())
}

func (f *fixture) requireGroupStake(t *testing.T, group uint32, expected int64) {
	t.Helper()
	stake, err := f.keeper.GroupStake(f.ctx, group)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(expected).String(), stake.String())
}

func (f *fixture) hasEvent(eventType string) bool {
	for _, ev := range f.ctx.EventManager().Events() {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

// eventAttr returns the value of key on the last event of eventType.
func (f *fixture) eventAttr(eventType, key string) string {
	var value string
	for _, ev := range f.ctx.EventManager().Events() {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				value = attr.Value
			}
		}
	}
	return value
}

func (f *fixture) requireInvariants(t *testing.T) {
	t.Helper()
	msg, broken := keeper.AllInvariants(f.keeper)(f.ctx)
	require.False(t, broken, msg)
}
