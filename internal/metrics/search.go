package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbay",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"status"}, // "ok" / "invalid" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docbay",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	FacetFanoutDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docbay",
			Name:      "facet_fanout_duration_seconds",
			Help:      "Facet dimension fan-out duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SnippetSourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbay",
			Name:      "snippet_source_total",
			Help:      "Snippets served per fallback source",
		},
		[]string{"source"}, // "body" / "summary" / "filename"
	)

	SuggestQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbay",
			Name:      "suggest_queries_total",
			Help:      "Total number of suggestion queries",
		},
		[]string{"dimension"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(FacetFanoutDuration)
	prometheus.MustRegister(SnippetSourceTotal)
	prometheus.MustRegister(SuggestQueriesTotal)
	searchMetricsRegistered = true
}
