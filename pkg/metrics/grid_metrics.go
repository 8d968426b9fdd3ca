package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GridQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chartering",
		Subsystem: "grid",
		Name:      "query_duration_seconds",
		Help:      "Latency of paginated fixture queries by unit.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"unit"})

	GridCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartering",
		Subsystem: "grid",
		Name:      "cache_hits_total",
		Help:      "Redis cache hits by payload kind.",
	}, []string{"kind"})

	GridCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartering",
		Subsystem: "grid",
		Name:      "cache_misses_total",
		Help:      "Redis cache misses by payload kind.",
	}, []string{"kind"})

	BookmarkMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartering",
		Subsystem: "bookmarks",
		Name:      "mutations_total",
		Help:      "Bookmark mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	ExportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartering",
		Subsystem: "export",
		Name:      "rows_total",
		Help:      "Rows written to export files by format.",
	}, []string{"format"})
)
