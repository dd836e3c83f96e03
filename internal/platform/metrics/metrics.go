// Package metrics holds the Prometheus collectors of the service.
//
// All metrics are prefixed with "patientedu_". Every Observe/Record method
// is safe to call on a nil *Metrics, so components can run without
// instrumentation in tests.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the catalog service.
type Metrics struct {
	// Content origin
	FragmentFetchesTotal  *prometheus.CounterVec
	FragmentFetchDuration *prometheus.HistogramVec

	// Catalog load and shape
	CatalogLoadsTotal   *prometheus.CounterVec
	CatalogLoadDuration prometheus.Histogram
	CatalogNodes        *prometheus.GaugeVec

	// Administration
	MutationsTotal     *prometheus.CounterVec
	TransientResources prometheus.Gauge
	LoginAttemptsTotal *prometheus.CounterVec

	// Export
	ExportsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the Prometheus metrics.
//
// This function uses sync.Once to ensure metrics are only registered once
// globally, preventing "duplicate metrics collector registration" panics.
//
// Metrics:
//   - patientedu_fragment_fetches_total{kind,result}
//   - patientedu_fragment_fetch_duration_seconds{kind}
//   - patientedu_catalog_loads_total{result}
//   - patientedu_catalog_load_duration_seconds
//   - patientedu_catalog_nodes{level} - sections, diseases, files, banners
//   - patientedu_mutations_total{operation,applied}
//   - patientedu_transient_resources - live blob references
//   - patientedu_login_attempts_total{result}
//   - patientedu_exports_total{result}
//   - patientedu_http_requests_total{method,route,status}
//   - patientedu_http_request_duration_seconds{method,route}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			FragmentFetchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_fragment_fetches_total",
					Help: "Total number of content fragment fetches",
				},
				[]string{"kind", "result"}, // result: "ok", "error", "malformed"
			),
			FragmentFetchDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "patientedu_fragment_fetch_duration_seconds",
					Help:    "Duration of content fragment fetches in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"kind"},
			),
			CatalogLoadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_catalog_loads_total",
					Help: "Total number of catalog loads",
				},
				[]string{"result"},
			),
			CatalogLoadDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "patientedu_catalog_load_duration_seconds",
					Help:    "Duration of the catalog load in seconds",
					Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
				},
			),
			CatalogNodes: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "patientedu_catalog_nodes",
					Help: "Number of nodes in the current catalog snapshot",
				},
				[]string{"level"},
			),
			MutationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_mutations_total",
					Help: "Total number of catalog mutations",
				},
				[]string{"operation", "applied"},
			),
			TransientResources: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "patientedu_transient_resources",
					Help: "Number of live transient content references",
				},
			),
			LoginAttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_login_attempts_total",
					Help: "Total number of administrator credential checks",
				},
				[]string{"result"}, // "success", "failure", "throttled"
			),
			ExportsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_exports_total",
					Help: "Total number of document exports",
				},
				[]string{"result"},
			),
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "patientedu_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "patientedu_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
		}
	})
	return globalMetrics
}

// ObserveFetch records one fragment fetch.
func (m *Metrics) ObserveFetch(kind, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.FragmentFetchesTotal.WithLabelValues(kind, result).Inc()
	if result != "malformed" {
		m.FragmentFetchDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObserveLoad records the outcome of a catalog load.
func (m *Metrics) ObserveLoad(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.CatalogLoadsTotal.WithLabelValues(result).Inc()
	m.CatalogLoadDuration.Observe(d.Seconds())
}

// SetCatalogSize publishes the node counts of the current snapshot.
func (m *Metrics) SetCatalogSize(sections, diseases, files, banners int) {
	if m == nil {
		return
	}
	m.CatalogNodes.WithLabelValues("sections").Set(float64(sections))
	m.CatalogNodes.WithLabelValues("diseases").Set(float64(diseases))
	m.CatalogNodes.WithLabelValues("files").Set(float64(files))
	m.CatalogNodes.WithLabelValues("banners").Set(float64(banners))
}

// RecordMutation counts one store operation.
func (m *Metrics) RecordMutation(operation string, applied bool) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(operation, strconv.FormatBool(applied)).Inc()
}

// SetTransientResources publishes the number of live blob references.
func (m *Metrics) SetTransientResources(n int) {
	if m == nil {
		return
	}
	m.TransientResources.Set(float64(n))
}

// RecordLogin counts one credential check.
func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordExport counts one export.
func (m *Metrics) RecordExport(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.ExportsTotal.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
