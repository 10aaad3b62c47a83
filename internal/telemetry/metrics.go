package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PacketsProcessed counts frames the extractor turned into a packet record.
	PacketsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "graphcap",
			Name:      "packets_processed_total",
			Help:      "Total number of frames successfully extracted",
		},
		[]string{"source"},
	)

	// PacketsSkipped counts frames the pipeline driver discarded before projection.
	PacketsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "graphcap",
			Name:      "packets_skipped_total",
			Help:      "Total number of frames skipped (decode failure, unsupported link type)",
		},
		[]string{"source", "reason"},
	)

	// CacheLookups counts recency cache hits/misses per kind.
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "graphcap",
			Name:      "cache_lookups_total",
			Help:      "Recency cache lookups by kind and result",
		},
		[]string{"kind", "result"}, // result: hit | miss
	)

	// UpsertsIssued counts graph store upserts by relationship/node kind.
	UpsertsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "graphcap",
			Name:      "upserts_issued_total",
			Help:      "Total upserts issued to the graph store, by entity kind",
		},
		[]string{"kind"},
	)

	// ExecutorRetries counts transient-failure retries in the upsert executor.
	ExecutorRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "graphcap",
			Name:      "executor_retries_total",
			Help:      "Total retry attempts made by the upsert executor after a transient failure",
		},
		[]string{"kind"},
	)

	// ExecutorDuration reports time spent in the upsert executor per call.
	ExecutorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "graphcap",
			Name:      "executor_duration_seconds",
			Help:      "Time spent executing a single upsert call",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(PacketsProcessed)
		prometheus.DefaultRegisterer.Register(PacketsSkipped)
		prometheus.DefaultRegisterer.Register(CacheLookups)
		prometheus.DefaultRegisterer.Register(UpsertsIssued)
		prometheus.DefaultRegisterer.Register(ExecutorRetries)
		prometheus.DefaultRegisterer.Register(ExecutorDuration)
	})
}
