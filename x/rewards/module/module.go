package module

import (
	"context"
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"
	"github.com/spf13/cobra"

	rewardscli "rewardchain/x/rewards/client/cli"
	"rewardchain/x/rewards/keeper"
	"rewardchain/x/rewards/types"
)

// AppModuleBasic defines the basic application module used by the rewards module.
type AppModuleBasic struct{}

func (AppModuleBasic) Name() string { return types.ModuleName }

func (AppModuleBasic) RegisterLegacyAminoCodec(_ *codec.LegacyAmino) {}

func (AppModuleBasic) DefaultGenesis(_ codec.JSONCodec) json.RawMessage {
	bz, _ := json.Marshal(types.DefaultGenesis())
	return bz
}

func (AppModuleBasic) ValidateGenesis(_ codec.JSONCodec, _ client.TxEncodingConfig, bz json.RawMessage) error {
	if len(bz) == 0 {
		return nil
	}
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return err
	}
	return gs.Validate()
}

// RegisterInterfaces is a no-op: the module has no messages.
func (AppModuleBasic) RegisterInterfaces(_ codectypes.InterfaceRegistry) {}

// RegisterGRPCGatewayRoutes is a no-op: state is read through the store query CLI.
func (AppModuleBasic) RegisterGRPCGatewayRoutes(_ client.Context, _ *runtime.ServeMux) {}

func (AppModuleBasic) GetTxCmd() *cobra.Command { return nil }

func (AppModuleBasic) GetQueryCmd() *cobra.Command {
	return rewardscli.GetQueryCmd()
}

// AppModule implements an application module for the rewards module.
type AppModule struct {
	AppModuleBasic
	keeper    keeper.Keeper
	scheduler keeper.EpochScheduler
}

// IsAppModule marks compatibility with appmodule wiring helpers.
func (AppModule) IsAppModule() {}

var _ appmodule.AppModule = AppModule{}
var _ module.AppModule = AppModule{}
var _ appmodule.HasBeginBlocker = AppModule{}

func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k, scheduler: keeper.NewEpochScheduler(k, k)}
}

// Scheduler returns the epoch scheduler driven by BeginBlock.
func (am AppModule) Scheduler() keeper.EpochScheduler { return am.scheduler }

func (am AppModule) InitGenesis(ctx sdk.Context, _ codec.JSONCodec, data json.RawMessage) []abci.ValidatorUpdate {
	gs := types.DefaultGenesis()
	if len(data) > 0 {
		if err := json.Unmarshal(data, gs); err != nil {
			panic(err)
		}
	}
	if err := am.keeper.InitGenesis(ctx, *gs); err != nil {
		panic(err)
	}
	return nil
}

func (am AppModule) ExportGenesis(ctx sdk.Context, _ codec.JSONCodec) json.RawMessage {
	gs, err := am.keeper.ExportGenesis(ctx)
	if err != nil {
		panic(err)
	}
	bz, _ := json.Marshal(gs)
	return bz
}

// BeginBlock closes the epoch when block time has reached its end. A failed
// boundary leaves state untouched and is retried on the next block.
func (am AppModule) BeginBlock(ctx context.Context) error {
	if err := am.scheduler.OnEpochTick(ctx); err != nil {
		am.keeper.Logger(ctx).Error("epoch tick failed", "err", err)
	}
	return nil
}

func (am AppModule) EndBlock(context.Context) error { return nil }

func (am AppModule) ConsensusVersion() uint64 { return 1 }

// RegisterInvariants implements the InvariantRegistry.
func (am AppModule) RegisterInvariants(ir sdk.InvariantRegistry) {
	keeper.RegisterInvariants(ir, am.keeper)
}
