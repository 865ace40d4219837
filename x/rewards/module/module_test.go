package module_test

import (
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/core/appmodule"
	"cosmossdk.io/depinject"
	"cosmossdk.io/log"
	math "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/keeper"
	rewardsmodule "rewardchain/x/rewards/module"
	"rewardchain/x/rewards/types"
)

type invariantRegistry struct {
	routes map[string]sdk.Invariant
}

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

// setupAppModule creates a test AppModule with an in-memory keeper.
func setupAppModule(t *testing.T) (rewardsmodule.AppModule, keeper.Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "rewards-test-1",
		Height:  1,
		Time:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	k := keeper.NewKeeper(
		runtime.NewKVStoreService(storeKey),
		addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		nil,
	)
	return rewardsmodule.NewAppModule(k), k, ctx
}

func TestGenesisLifecycle(t *testing.T) {
	am, k, ctx := setupAppModule(t)

	basic := rewardsmodule.AppModuleBasic{}
	genesis := basic.DefaultGenesis(nil)
	require.NoError(t, basic.ValidateGenesis(nil, nil, genesis))
	require.Error(t, basic.ValidateGenesis(nil, nil, json.RawMessage(`{"params":{"max_groups":0}}`)))
	require.Error(t, basic.ValidateGenesis(nil, nil, json.RawMessage(`{`)))

	require.Nil(t, am.InitGenesis(ctx, nil, genesis))

	user := sdk.AccAddress([]byte("module-test-account1"))
	require.NoError(t, k.AttachCurrency(ctx, "xcur", 1))
	require.NoError(t, k.DepositStake(ctx, user, "xcur", math.NewInt(50)))

	var exported types.GenesisState
	require.NoError(t, json.Unmarshal(am.ExportGenesis(ctx, nil), &exported))
	require.Len(t, exported.Groups, 1)
	require.Len(t, exported.Positions, 1)
	require.NoError(t, basic.ValidateGenesis(nil, nil, am.ExportGenesis(ctx, nil)))
}

func TestBeginBlockRunsEpochs(t *testing.T) {
	am, k, ctx := setupAppModule(t)
	require.Nil(t, am.InitGenesis(ctx, nil, nil))

	user := sdk.AccAddress([]byte("module-test-account1"))
	require.NoError(t, k.AttachCurrency(ctx, "xcur", 1))
	require.NoError(t, k.DepositStake(ctx, user, "xcur", math.NewInt(50)))
	require.NoError(t, am.Scheduler().SetGroupWeight(ctx, 1, 1))
	require.NoError(t, am.Scheduler().SetDistributedReward(ctx, math.NewInt(500)))

	require.NoError(t, am.BeginBlock(ctx))
	epoch, err := am.Scheduler().CurrentEpoch(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), epoch.Number)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(types.DefaultEpochDuration))
	require.NoError(t, am.BeginBlock(ctx))

	reward, err := k.ComputeReward(ctx, user, "xcur")
	require.NoError(t, err)
	require.Equal(t, int64(500), reward.Int64())

	ir := &invariantRegistry{routes: map[string]sdk.Invariant{}}
	am.RegisterInvariants(ir)
	require.Len(t, ir.routes, 2)
	for route, invar := range ir.routes {
		msg, broken := invar(ctx)
		require.False(t, broken, "%s: %s", route, msg)
	}
}

func TestProvideModule(t *testing.T) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	var (
		k       keeper.Keeper
		modules map[string]appmodule.AppModule
	)
	err := depinject.Inject(
		depinject.Configs(
			depinject.Supply(
				runtime.NewKVStoreService(storeKey),
				addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
			),
			depinject.ProvideInModule(types.ModuleName, rewardsmodule.ProvideModule),
		),
		&k,
		&modules,
	)
	require.NoError(t, err)
	require.Contains(t, modules, types.ModuleName)
	require.NotNil(t, k.Metrics())
}
