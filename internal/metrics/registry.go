// Package metrics exposes Prometheus counters for the extraction
// pipeline. It follows the nil-means-disabled pattern: until Enable is
// called, every exported metric is nil and every Observe/Inc helper is
// a no-op, so callers never need to branch on whether metrics are on.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
	metrics  *Metrics
)

// Metrics holds the counters a single extraction run reports.
type Metrics struct {
	JobsParsed           *prometheus.CounterVec
	FilesParsed          prometheus.Counter
	LostBytes            prometheus.Counter
	FieldCountMismatches prometheus.Counter
}

// Enable creates a fresh registry and the counter set, returning the
// process-wide Metrics instance. Calling it more than once replaces
// the previous registry.
func Enable() *Metrics {
	mu.Lock()
	defer mu.Unlock()

	registry = prometheus.NewRegistry()
	metrics = &Metrics{
		JobsParsed: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitsqmgr_jobs_parsed_total",
				Help: "Total number of BITS jobs parsed, by whether they were recovered via carving.",
			},
			[]string{"carved"},
		),
		FilesParsed: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "bitsqmgr_files_parsed_total",
				Help: "Total number of file transfer records parsed across all jobs.",
			},
		),
		LostBytes: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "bitsqmgr_lost_bytes_total",
				Help: "Total bytes of carved sections that no recovery strategy could classify.",
			},
		),
		FieldCountMismatches: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "bitsqmgr_field_count_mismatch_total",
				Help: "Total clean-path job records whose decoded file count differs from file_count (the records are still reported).",
			},
		),
	}
	return metrics
}

// IsEnabled reports whether Enable has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return metrics != nil
}

// Get returns the process-wide Metrics, or nil if Enable was never
// called.
func Get() *Metrics {
	mu.Lock()
	defer mu.Unlock()
	return metrics
}

// Handler returns the promhttp handler for the active registry, or nil
// if metrics are disabled.
func Handler() http.Handler {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		return nil
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveJobParsed increments the jobs-parsed counter. m may be nil.
func (m *Metrics) ObserveJobParsed(carved bool) {
	if m == nil {
		return
	}
	label := "false"
	if carved {
		label = "true"
	}
	m.JobsParsed.WithLabelValues(label).Inc()
}

// ObserveFilesParsed adds n to the files-parsed counter. m may be nil.
func (m *Metrics) ObserveFilesParsed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.FilesParsed.Add(float64(n))
}

// ObserveLostBytes adds n to the lost-bytes counter. m may be nil.
func (m *Metrics) ObserveLostBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LostBytes.Add(float64(n))
}

// ObserveFieldCountMismatch increments the mismatch counter. m may be
// nil.
func (m *Metrics) ObserveFieldCountMismatch() {
	if m == nil {
		return
	}
	m.FieldCountMismatches.Inc()
}
