package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	compilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooltipage_compiles_total",
			Help: "Total number of compiled resources",
		},
		[]string{"kind", "status"},
	)

	compileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooltipage_compile_duration_seconds",
			Help:    "Compile duration in seconds, including nested references",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooltipage_cache_lookups_total",
			Help: "Resource cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	linkedResourcesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooltipage_linked_resources_total",
			Help: "Linked resources, split into newly written and deduplicated",
		},
		[]string{"mime", "result"},
	)
)

// ObserveCompile records one compile of the given kind (page, fragment, component).
func ObserveCompile(kind string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	compilesTotal.WithLabelValues(kind, status).Inc()
	compileDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

func LinkedResource(mime string, deduplicated bool) {
	result := "new"
	if deduplicated {
		result = "dedup"
	}
	linkedResourcesTotal.WithLabelValues(mime, result).Inc()
}

// Counters exposed for tests.
func CompilesTotal() *prometheus.CounterVec        { return compilesTotal }
func LinkedResourcesTotal() *prometheus.CounterVec { return linkedResourcesTotal }
