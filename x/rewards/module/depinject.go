package module

import (
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/appmodule"
	"cosmossdk.io/core/store"
	"cosmossdk.io/depinject"
	"github.com/prometheus/client_golang/prometheus"

	"rewardchain/x/rewards/keeper"
)

var _ depinject.OnePerModuleType = AppModule{}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface.
func (AppModule) IsOnePerModuleType() {}

type ModuleInputs struct {
	depinject.In

	StoreService store.KVStoreService
	AddressCodec address.Codec
	Registerer   prometheus.Registerer `optional:"true"`
}

type ModuleOutputs struct {
	depinject.Out

	RewardsKeeper keeper.Keeper
	Module        appmodule.AppModule
}

func ProvideModule(in ModuleInputs) ModuleOutputs {
	k := keeper.NewKeeper(in.StoreService, in.AddressCodec, in.Registerer)
	m := NewAppModule(k)
	return ModuleOutputs{RewardsKeeper: k, Module: m}
}
