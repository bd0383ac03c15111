package toys

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	toysInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toystore",
			Subsystem: "store",
			Name:      "toys_inserted_total",
			Help:      "Number of toys added to any store, pooled or not",
		})
	toysOverflowed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toystore",
			Subsystem: "store",
			Name:      "toys_overflowed_total",
			Help:      "Number of toys kept out of the sampling pool because it was full",
		})
	toysMalformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "toystore",
			Subsystem: "store",
			Name:      "entries_malformed_total",
			Help:      "Number of batch lines skipped for not having exactly three fields",
		})
	drawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toystore",
			Subsystem: "store",
			Name:      "draws_total",
			Help:      "Number of successful draws, by pool slot",
		},
		[]string{"slot"})
)

func registerMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(toysInserted)
		prometheus.MustRegister(toysOverflowed)
		prometheus.MustRegister(toysMalformed)
		prometheus.MustRegister(drawsTotal)
	})
}
