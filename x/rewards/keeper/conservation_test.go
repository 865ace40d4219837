package keeper_test

import (
	"fmt"
	"math/rand"
	"testing"

	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"rewardchain/x/rewards/types"
)

func TestRandomOperationsConserveReward(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			runConservation(t, rand.New(rand.NewSource(seed)), 400)
		})
	}
}

func runConservation(t *testing.T, r *rand.Rand, steps int) {
	f := initFixture(t)
	f.setParams(t, func(p *types.Params) { p.MaxCurrencyMovements = 1 << 30 })

	accounts := []sdk.AccAddress{accAddr("a"), accAddr("b"), accAddr("c"), accAddr("d")}
	currencies := []string{"acur", "bcur", "ccur"}
	groups := []uint32{1, 2, 3}
	for i, c := range currencies {
		f.attach(t, c, groups[i])
	}

	claimed := math.ZeroInt()
	// Every settlement and every group credit may truncate less than one unit.
	lossBound := int64(0)

	for i := 0; i < steps; i++ {
		account := accounts[r.Intn(len(accounts))]
		currency := currencies[r.Intn(len(currencies))]

		switch r.Intn(5) {
		case 0:
			f.deposit(t, account, currency, r.Int63n(1000))
			lossBound++
		case 1:
			stake, err := f.keeper.AccountStake(f.ctx, account, currency)
			require.NoError(t, err)
			if stake.IsPositive() {
				amount := math.NewInt(r.Int63n(stake.Int64()) + 1)
				require.NoError(t, f.keeper.WithdrawStake(f.ctx, account, currency, amount))
				lossBound++
			}
		case 2:
			amount, err := f.keeper.ClaimReward(f.ctx, account, currency)
			require.NoError(t, err)
			claimed = claimed.Add(amount)
			lossBound++
		case 3:
			f.distribute(t, r.Int63n(5000), groups...)
			lossBound += int64(len(groups))
		case 4:
			to := groups[r.Intn(len(groups))]
			current, _, err := f.keeper.CurrencyGroup(f.ctx, currency)
			require.NoError(t, err)
			if current != to {
				require.NoError(t, f.keeper.AttachCurrency(f.ctx, currency, to))
			}
		}
		f.requireInvariants(t)
	}

	owed := math.ZeroInt()
	lossBound += int64(len(accounts) * len(currencies))
	for _, account := range accounts {
		for _, currency := range currencies {
			reward, err := f.keeper.ComputeReward(f.ctx, account, currency)
			require.NoError(t, err)
			owed = owed.Add(reward)
		}
	}

	totals, err := f.keeper.GetTotals(f.ctx)
	require.NoError(t, err)
	require.Equal(t, claimed.String(), totals.Claimed.String())

	attributed := claimed.Add(owed)
	require.True(t, attributed.LTE(totals.Credited), "attributed %s credited %s", attributed, totals.Credited)
	loss := totals.Credited.Sub(attributed)
	require.True(t, loss.LTE(math.NewInt(lossBound)), "lost %s, bound %d", loss, lossBound)
}
