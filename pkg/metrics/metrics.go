package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "torgiwatch"

//nolint:gochecknoglobals
var (
	StrategyHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_hits_total",
		Help:      "Pages whose lots came from the given extraction strategy.",
	}, []string{"strategy"})

	StrategyFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_failures_total",
		Help:      "Extraction strategy attempts that ended in an error.",
	}, []string{"strategy"})

	LotsChecked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lots_checked_total",
		Help:      "Lots classified by the change detector.",
	})

	LotsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lots_classified_total",
		Help:      "Lots by change classification.",
	}, []string{"change"})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Notifications that could not be delivered.",
	})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_duration_seconds",
		Help:      "Duration of a full check run.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)
