package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Resolutions     *prometheus.CounterVec
	CacheHits       prometheus.Counter
	ResolveDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashgate_tenant_resolutions_total",
			Help: "Tenant resolution attempts by outcome (resolved, absent, error)",
		}, []string{"outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_tenant_lookup_cache_hits_total",
			Help: "Tenant lookups served from the resolver's lookup cache",
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashgate_tenant_resolve_duration_seconds",
			Help:    "Duration of tenant resolution (runs on every request)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) ObserveResolve(start time.Time, outcome string) {
	m.Resolutions.WithLabelValues(outcome).Inc()
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
