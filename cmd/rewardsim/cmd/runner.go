package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cosmossdk.io/log"
	math "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"

	"rewardchain/x/rewards/keeper"
	rewardsmodule "rewardchain/x/rewards/module"
	"rewardchain/x/rewards/types"
)

// Runner replays a scenario against a fresh in-memory chain state.
type Runner struct {
	sc     Scenario
	out    io.Writer
	ctx    sdk.Context
	keeper keeper.Keeper
	module rewardsmodule.AppModule
}

// NewRunner mounts the rewards store on a memdb-backed multistore and runs
// genesis with the scenario params.
func NewRunner(sc Scenario, logger log.Logger, out io.Writer) (*Runner, error) {
	start, err := sc.StartTime()
	if err != nil {
		return nil, err
	}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	cms := rootmulti.NewStore(dbm.NewMemDB(), logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, err
	}
	header := cmtproto.Header{ChainID: "rewardsim", Height: 1, Time: start}
	ctx := sdk.NewContext(cms, header, false, logger)

	k := keeper.NewKeeper(
		runtime.NewKVStoreService(storeKey),
		addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		prometheus.NewRegistry(),
	)
	gs := types.DefaultGenesis()
	gs.Params = sc.Params.apply(gs.Params)
	if err := k.InitGenesis(ctx, *gs); err != nil {
		return nil, err
	}

	return &Runner{
		sc:     sc,
		out:    out,
		ctx:    ctx,
		keeper: k,
		module: rewardsmodule.NewAppModule(k),
	}, nil
}

// Run executes every step and checks the ledger invariants after each one.
func (r *Runner) Run() error {
	for i, step := range r.sc.Steps {
		msg, err := r.exec(step)
		if err := checkExpectedError(step, err); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		if res, broken := keeper.AllInvariants(r.keeper)(r.ctx); broken {
			return fmt.Errorf("step %d (%s): invariant broken: %s", i, step.Op, res)
		}
		if err != nil {
			msg = "error: " + err.Error()
		}
		fmt.Fprintf(r.out, "%3d %-20s %s\n", i, step.Op, msg)
	}

	totals, err := r.keeper.GetTotals(r.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "totals: credited=%s claimed=%s undistributed=%s\n", totals.Credited, totals.Claimed, totals.Undistributed)
	return nil
}

func checkExpectedError(step Step, err error) error {
	switch {
	case step.ExpectError == "" && err != nil:
		return err
	case step.ExpectError != "" && err == nil:
		return fmt.Errorf("expected error %q", step.ExpectError)
	case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
		return fmt.Errorf("expected error %q, got %w", step.ExpectError, err)
	}
	return nil
}

// account resolves a bech32 address or derives one from a name.
func account(name string) sdk.AccAddress {
	if addr, err := sdk.AccAddressFromBech32(name); err == nil {
		return addr
	}
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

func amount(a args, key string) (math.Int, error) {
	s, err := a.str(key)
	if err != nil {
		return math.Int{}, err
	}
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func (r *Runner) scheduler() keeper.EpochScheduler { return r.module.Scheduler() }

func (r *Runner) exec(step Step) (string, error) {
	a := args(step.Args)
	switch step.Op {
	case "attach":
		currency, group, err := currencyAndGroup(a, "group")
		if err != nil {
			return "", err
		}
		return "", r.keeper.AttachCurrency(r.ctx, currency, group)

	case "move":
		currency, from, err := currencyAndGroup(a, "from")
		if err != nil {
			return "", err
		}
		to, err := a.group("to")
		if err != nil {
			return "", err
		}
		return "", r.keeper.MoveCurrency(r.ctx, currency, from, to)

	case "deposit", "withdraw":
		acc, currency, err := accountAndCurrency(a)
		if err != nil {
			return "", err
		}
		amt, err := amount(a, "amount")
		if err != nil {
			return "", err
		}
		if step.Op == "deposit" {
			return "", r.keeper.DepositStake(r.ctx, acc, currency, amt)
		}
		return "", r.keeper.WithdrawStake(r.ctx, acc, currency, amt)

	case "claim":
		acc, currency, err := accountAndCurrency(a)
		if err != nil {
			return "", err
		}
		claimed, err := r.keeper.ClaimReward(r.ctx, acc, currency)
		if err != nil {
			return "", err
		}
		if _, ok := a["expect"]; ok {
			if err := expectAmount(a, claimed); err != nil {
				return "", err
			}
		}
		return "claimed " + claimed.String(), nil

	case "distribute":
		amt, err := amount(a, "amount")
		if err != nil {
			return "", err
		}
		groups, err := a.groups("groups")
		if err != nil {
			return "", err
		}
		results, err := r.keeper.DistributeReward(r.ctx, amt, groups)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(results))
		for i, res := range results {
			if res.Skipped() {
				parts[i] = fmt.Sprintf("%d:skipped", res.GroupID)
				continue
			}
			parts[i] = fmt.Sprintf("%d:%s", res.GroupID, res.Credited)
		}
		return strings.Join(parts, " "), nil

	case "reward_group":
		group, err := a.group("group")
		if err != nil {
			return "", err
		}
		amt, err := amount(a, "amount")
		if err != nil {
			return "", err
		}
		return "", r.keeper.RewardGroup(r.ctx, group, amt)

	case "set_weight":
		group, err := a.group("group")
		if err != nil {
			return "", err
		}
		weight, err := a.uint64("weight")
		if err != nil {
			return "", err
		}
		return "queued", r.scheduler().SetGroupWeight(r.ctx, group, weight)

	case "set_currency_group":
		currency, group, err := currencyAndGroup(a, "group")
		if err != nil {
			return "", err
		}
		return "queued", r.scheduler().SetCurrencyGroup(r.ctx, currency, group)

	case "set_reward":
		amt, err := amount(a, "amount")
		if err != nil {
			return "", err
		}
		return "queued", r.scheduler().SetDistributedReward(r.ctx, amt)

	case "set_duration":
		d, err := a.duration("duration")
		if err != nil {
			return "", err
		}
		return "queued", r.scheduler().SetEpochDuration(r.ctx, d)

	case "advance":
		d, err := a.duration("duration")
		if err != nil {
			return "", err
		}
		return r.advance(d)

	case "expect_reward":
		acc, currency, err := accountAndCurrency(a)
		if err != nil {
			return "", err
		}
		reward, err := r.keeper.ComputeReward(r.ctx, acc, currency)
		if err != nil {
			return "", err
		}
		return reward.String(), expectAmount(a, reward)

	case "expect_stake":
		acc, currency, err := accountAndCurrency(a)
		if err != nil {
			return "", err
		}
		stake, err := r.keeper.AccountStake(r.ctx, acc, currency)
		if err != nil {
			return "", err
		}
		return stake.String(), expectAmount(a, stake)

	case "expect_group_stake":
		group, err := a.group("group")
		if err != nil {
			return "", err
		}
		stake, err := r.keeper.GroupStake(r.ctx, group)
		if err != nil {
			return "", err
		}
		return stake.String(), expectAmount(a, stake)

	case "expect_epoch":
		epoch, err := r.scheduler().CurrentEpoch(r.ctx)
		if err != nil {
			return "", err
		}
		want, err := a.uint64("expect")
		if err != nil {
			return "", err
		}
		if epoch.Number != want {
			return "", fmt.Errorf("epoch %d, want %d", epoch.Number, want)
		}
		return fmt.Sprintf("epoch %d", epoch.Number), nil
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

// advance moves to the next block d later and runs BeginBlock.
func (r *Runner) advance(d time.Duration) (string, error) {
	r.ctx = r.ctx.
		WithBlockHeight(r.ctx.BlockHeight() + 1).
		WithBlockTime(r.ctx.BlockTime().Add(d))
	if err := r.module.BeginBlock(r.ctx); err != nil {
		return "", err
	}
	epoch, err := r.scheduler().CurrentEpoch(r.ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("height %d epoch %d", r.ctx.BlockHeight(), epoch.Number), nil
}

func currencyAndGroup(a args, groupKey string) (string, uint32, error) {
	currency, err := a.str("currency")
	if err != nil {
		return "", 0, err
	}
	group, err := a.group(groupKey)
	return currency, group, err
}

func accountAndCurrency(a args) (sdk.AccAddress, string, error) {
	name, err := a.str("account")
	if err != nil {
		return nil, "", err
	}
	currency, err := a.str("currency")
	return account(name), currency, err
}

func expectAmount(a args, got math.Int) error {
	want, err := amount(a, "expect")
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return fmt.Errorf("got %s, want %s", got, want)
	}
	return nil
}
