package keeper

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"

	"rewardchain/x/rewards/types"
)

// Keeper is the reward ledger. It stores groups, currencies and account
// positions and implements types.RewardMechanism.
type Keeper struct {
	storeService store.KVStoreService
	addressCodec address.Codec
	metrics      *Metrics

	Schema collections.Schema

	Params       collections.Item[types.Params]
	Groups       collections.Map[uint32, types.Group]
	Currencies   collections.Map[string, types.Currency]
	Positions    collections.Map[collections.Pair[string, string], types.Position]
	Totals       collections.Item[types.RewardTotals]
	Epoch        collections.Item[types.EpochState]
	EpochChanges collections.Item[types.EpochChanges]
}

var _ types.RewardMechanism = Keeper{}

// NewKeeper builds the keeper. Metrics are registered on reg when it is not nil.
func NewKeeper(storeService store.KVStoreService, addressCodec address.Codec, reg prometheus.Registerer) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := Keeper{
		storeService: storeService,
		addressCodec: addressCodec,
		metrics:      NewMetrics(reg),

		Params:       collections.NewItem(sb, types.ParamsKey, "params", newJSONValueCodec[types.Params]("Params")),
		Groups:       collections.NewMap(sb, types.GroupKeyPrefix, "groups", collections.Uint32Key, newJSONValueCodec[types.Group]("Group")),
		Currencies:   collections.NewMap(sb, types.CurrencyKeyPrefix, "currencies", collections.StringKey, newJSONValueCodec[types.Currency]("Currency")),
		Positions:    collections.NewMap(sb, types.PositionKeyPrefix, "positions", collections.PairKeyCodec(collections.StringKey, collections.StringKey), newJSONValueCodec[types.Position]("Position")),
		Totals:       collections.NewItem(sb, types.TotalsKey, "totals", newJSONValueCodec[types.RewardTotals]("RewardTotals")),
		Epoch:        collections.NewItem(sb, types.EpochStateKey, "epoch", newJSONValueCodec[types.EpochState]("EpochState")),
		EpochChanges: collections.NewItem(sb, types.EpochChangesKey, "epoch_changes", newJSONValueCodec[types.EpochChanges]("EpochChanges")),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// Metrics returns the keeper instrumentation.
func (k Keeper) Metrics() *Metrics { return k.metrics }

// GetParams returns current params or default if unset.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	p, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, err
	}
	return p, nil
}

// SetParams stores module params.
func (k Keeper) SetParams(ctx context.Context, p types.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return k.Params.Set(ctx, p)
}

func (k Keeper) GetTotals(ctx context.Context) (types.RewardTotals, error) {
	t, err := k.Totals.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.NewRewardTotals(), nil
		}
		return types.RewardTotals{}, err
	}
	return t, nil
}

// atomically runs fn on a cached branch of ctx and commits it only when fn
// succeeds. Events emitted by fn are forwarded on commit.
func atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	cacheCtx, write := sdk.UnwrapSDKContext(ctx).CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

func emit(ctx context.Context, event sdk.Event) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(event)
}

func blockTime(ctx context.Context) time.Time {
	return sdk.UnwrapSDKContext(ctx).BlockTime()
}
