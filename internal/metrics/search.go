package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dirsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"kind", "outcome"}, // kind: search/autocomplete; outcome: ok/empty/cached/error/timeout/invalid
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dirsearch",
			Name:      "search_duration_seconds",
			Help:      "Search execution time in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind", "cached"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dirsearch",
			Name:      "search_candidates",
			Help:      "Number of employees evaluated per computed search",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dirsearch",
			Name:      "cache_total",
			Help:      "Result cache lookups",
		},
		[]string{"kind", "result"}, // "hit" / "miss" / "error"
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dirsearch",
			Name:      "analytics_events_total",
			Help:      "Analytics events by delivery outcome",
		},
		[]string{"outcome"}, // "recorded" / "failed" / "dropped"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(AnalyticsEventsTotal)
	searchMetricsRegistered = true
}
