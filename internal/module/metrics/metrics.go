package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	Invalidations     prometheus.Counter
	CoalescedWaits    prometheus.Counter
	ResolveDuration   prometheus.Histogram
	ResolveFailures   prometheus.Counter
	ModuleLoadFailed  *prometheus.CounterVec
	ModulesDispatched *prometheus.CounterVec
	DispatchMisses    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_cache_hits_total",
			Help: "Module resolutions served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_cache_misses_total",
			Help: "Module resolutions that consulted the assignment store",
		}),
		Invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_cache_invalidations_total",
			Help: "Explicit module cache invalidations",
		}),
		CoalescedWaits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_resolutions_coalesced_total",
			Help: "Callers that awaited another caller's in-flight resolution",
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashgate_module_resolve_duration_seconds",
			Help:    "Duration of module resolution including backing-store time",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ResolveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_resolve_failures_total",
			Help: "Resolutions that failed because the assignment store was unreachable",
		}),
		ModuleLoadFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashgate_module_load_failures_total",
			Help: "Individual module implementations that failed to load",
		}, []string{"module"}),
		ModulesDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashgate_module_dispatches_total",
			Help: "Requests forwarded to module implementations",
		}, []string{"module"}),
		DispatchMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dashgate_module_dispatch_misses_total",
			Help: "Dispatch attempts for modules absent from the tenant's resolved set",
		}),
	}
}

func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
