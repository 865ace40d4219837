package cli

import (
	"testing"

	math "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/keeper"
	"rewardchain/x/rewards/types"
)

func TestStoreKeysMatchKeeper(t *testing.T) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContextWithDB(t, storeKey, storetypes.NewTransientStoreKey("transient_test")).Ctx
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()), nil)

	user := sdk.AccAddress([]byte("cli-test-account-001"))
	require.NoError(t, k.AttachCurrency(ctx, "xcur", 7))
	require.NoError(t, k.DepositStake(ctx, user, "xcur", math.NewInt(3)))

	kv := ctx.KVStore(storeKey)

	key, err := groupKey(7)
	require.NoError(t, err)
	require.Contains(t, string(kv.Get(key)), `"id":7`)

	key, err = currencyKey("xcur")
	require.NoError(t, err)
	require.Contains(t, string(kv.Get(key)), `"group_id":7`)

	key, err = positionKey(user.String(), "xcur")
	require.NoError(t, err)
	require.Contains(t, string(kv.Get(key)), `"stake":"3"`)

	require.Nil(t, kv.Get(types.TotalsKey.Bytes()))
}

func TestQueryCmdTree(t *testing.T) {
	cmd := GetQueryCmd()
	for _, name := range []string{"params", "group", "currency", "position", "epoch", "totals"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
		require.NotNil(t, sub.Flags().Lookup("output"))
	}
}
