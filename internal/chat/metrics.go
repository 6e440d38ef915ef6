package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	providerAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_provider_attempts_total",
			Help: "Total number of text-generation provider calls",
		},
		[]string{"provider", "status"},
	)
	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_provider_latency_seconds",
			Help:    "Duration of text-generation provider calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)
	outcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_chat_outcomes_total",
			Help: "Total number of chat replies by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(providerAttempts)
	prometheus.MustRegister(providerLatency)
	prometheus.MustRegister(outcomesTotal)
}
