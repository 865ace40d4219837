package keeper

import (
	"context"

	"cosmossdk.io/collections"

	"rewardchain/x/rewards/types"
)

func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}

	for _, g := range gs.Groups {
		if err := k.Groups.Set(ctx, g.ID, g); err != nil {
			return err
		}
	}
	for _, c := range gs.Currencies {
		if err := k.Currencies.Set(ctx, c.ID, c); err != nil {
			return err
		}
	}
	for _, p := range gs.Positions {
		if err := k.Positions.Set(ctx, collections.Join(p.Account, p.Currency), p.Position); err != nil {
			return err
		}
	}
	if err := k.Totals.Set(ctx, gs.Totals); err != nil {
		return err
	}

	epoch := types.NewEpochState(gs.Params.EpochDuration)
	if gs.Epoch != nil {
		epoch = *gs.Epoch
	}
	if err := k.Epoch.Set(ctx, epoch); err != nil {
		return err
	}
	if gs.EpochChanges.IsEmpty() {
		return nil
	}
	return k.EpochChanges.Set(ctx, gs.EpochChanges)
}

func (k Keeper) ExportGenesis(ctx context.Context) (types.GenesisState, error) {
	gen := *types.DefaultGenesis()

	p, err := k.GetParams(ctx)
	if err != nil {
		return types.GenesisState{}, err
	}
	gen.Params = p

	err = k.Groups.Walk(ctx, nil, func(_ uint32, g types.Group) (bool, error) {
		gen.Groups = append(gen.Groups, g)
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}

	err = k.Currencies.Walk(ctx, nil, func(_ string, c types.Currency) (bool, error) {
		gen.Currencies = append(gen.Currencies, c)
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}

	err = k.Positions.Walk(ctx, nil, func(key collections.Pair[string, string], pos types.Position) (bool, error) {
		gen.Positions = append(gen.Positions, types.GenesisPosition{Account: key.K1(), Currency: key.K2(), Position: pos})
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}

	if gen.Totals, err = k.GetTotals(ctx); err != nil {
		return types.GenesisState{}, err
	}

	scheduler := NewEpochScheduler(k, k)
	epoch, err := scheduler.CurrentEpoch(ctx)
	if err != nil {
		return types.GenesisState{}, err
	}
	gen.Epoch = &epoch
	if gen.EpochChanges, err = scheduler.PendingChanges(ctx); err != nil {
		return types.GenesisState{}, err
	}

	return gen, nil
}
