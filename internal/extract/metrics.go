package extract

import "github.com/prometheus/client_golang/prometheus"

var (
	// extractionsTotal counts structuring attempts (genuine or not).
	extractionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extraction_structuring_attempts_total",
		Help: "Total number of document structuring attempts.",
	})

	// fallbacksTotal counts structuring failures degraded to fallback
	// results. A rising ratio against attempts signals a broken or
	// misconfigured structuring service.
	fallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extraction_fallbacks_total",
		Help: "Total number of extractions that degraded to the fallback result.",
	})
)

func init() {
	prometheus.MustRegister(extractionsTotal, fallbacksTotal)
}
