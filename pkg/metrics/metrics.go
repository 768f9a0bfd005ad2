package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buy_listener",
		Name:      "poll_cycles_total",
		Help:      "Poll cycles executed.",
	})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buy_listener",
		Name:      "fetch_errors_total",
		Help:      "Failed explorer fetches by error kind.",
	}, []string{"kind"})

	BuyAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buy_listener",
		Name:      "buy_alerts_total",
		Help:      "Buy alerts emitted by tier.",
	}, []string{"tier"})

	SignificantBuys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buy_listener",
		Name:      "significant_buys_total",
		Help:      "Buys at or above the alert threshold.",
	})

	Heartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "buy_listener",
		Name:      "heartbeats_total",
		Help:      "Cycles where the latest transfer matched the baseline.",
	})

	LastTransferTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "buy_listener",
		Name:      "baseline_transfer_timestamp_seconds",
		Help:      "Timestamp of the current baseline transfer.",
	})
)
