package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SelectionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "investscore",
			Subsystem: "selection",
			Name:      "latency_seconds",
			Help:      "End-to-end latency of Select by path",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	SelectionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investscore",
			Subsystem: "selection",
			Name:      "errors_total",
			Help:      "Selection failures by reason",
		},
		[]string{"reason"},
	)

	Degradations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investscore",
			Subsystem: "selection",
			Name:      "degradations_total",
			Help:      "Responses served without ML contribution, by cause",
		},
		[]string{"cause"},
	)

	MLTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "investscore",
			Subsystem: "selection",
			Name:      "ml_timeouts_total",
			Help:      "ML path cancellations due to budget exhaustion",
		},
	)

	PredictionCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investscore",
			Subsystem: "prediction_cache",
			Name:      "ops_total",
			Help:      "Prediction cache operations by outcome",
		},
		[]string{"outcome"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SelectionLatency, SelectionErrors, Degradations, MLTimeouts, PredictionCacheOps)
	})
}
