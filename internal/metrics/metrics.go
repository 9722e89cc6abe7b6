package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akterm_observations_loaded_total",
			Help: "Total observation rows read from DWD product files",
		},
		[]string{"source"},
	)

	ObservationsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akterm_observations_classified_total",
			Help: "Total observations classified, by final stability class",
		},
		[]string{"class"},
	)

	QualityFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akterm_quality_flags_total",
			Help: "Total quality flags raised during ingestion",
		},
		[]string{"flag"},
	)

	SunCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akterm_sun_cache_lookups_total",
			Help: "Sun time cache lookups by result",
		},
		[]string{"result"},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "akterm_validation_failures_total",
			Help: "Batches rejected because of unparseable timestamps",
		},
	)

	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "akterm_fetch_attempts_total",
			Help: "Download attempts for DWD product archives",
		},
		[]string{"scheme", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "akterm_run_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)

// WriteTextfile writes all registered metrics in the node-exporter textfile
// format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
