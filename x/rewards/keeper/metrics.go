package keeper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the reward ledger. Metrics built with a nil registerer
// are still usable but never exported.
type Metrics struct {
	// StakeOps counts stake operations, partitioned by op.
	StakeOps *prometheus.CounterVec
	// GroupsRewarded counts group credits, partitioned by outcome.
	GroupsRewarded *prometheus.CounterVec
	// CurrencyMoves counts currency group changes.
	CurrencyMoves prometheus.Counter
	// Epoch is the number of the epoch in progress.
	Epoch prometheus.Gauge
	// PendingChanges is the size of the change queue.
	PendingChanges prometheus.Gauge
	// DiscardedBatches counts epoch change batches that failed to apply.
	DiscardedBatches prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StakeOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rewards_stake_ops_total",
			Help: "Stake operations applied to the reward ledger",
		}, []string{"op"}),
		GroupsRewarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rewards_group_distributions_total",
			Help: "Per-group outcomes of reward distributions",
		}, []string{"outcome"}),
		CurrencyMoves: f.NewCounter(prometheus.CounterOpts{
			Name: "rewards_currency_moves_total",
			Help: "Currencies moved between groups",
		}),
		Epoch: f.NewGauge(prometheus.GaugeOpts{
			Name: "rewards_epoch",
			Help: "Current epoch number",
		}),
		PendingChanges: f.NewGauge(prometheus.GaugeOpts{
			Name: "rewards_pending_changes",
			Help: "Configuration changes queued for the next epoch",
		}),
		DiscardedBatches: f.NewCounter(prometheus.CounterOpts{
			Name: "rewards_discarded_change_batches_total",
			Help: "Epoch change batches discarded after a failure",
		}),
	}
}

const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opClaim    = "claim"

	outcomeCredited = "credited"
	outcomeSkipped  = "skipped"
)
