package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promMetrics is the Prometheus-backed GlobalMetrics implementation: one
// http_requests_total counter labeled by method/path/code and one
// http_request_duration_seconds histogram labeled by method/path, mirroring the teacher's own
// server.Metrics/InstrumentHandler contract.
type promMetrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetrics returns a GlobalMetrics backed by reg (GlobalMetricsRegistry
// if reg is nil).
func NewPrometheusMetrics(reg *prometheus.Registry) GlobalMetrics {
	if reg == nil {
		reg = GlobalMetricsRegistry
	}
	m := &promMetrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled by the mock server.",
		}, []string{"method", "path", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Latency of HTTP requests handled by the mock server.",
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.requests, m.durations)
	return m
}

func (m *promMetrics) RegisterEndpoints(registrar func(path, method string, handler http.Handler)) {
	registrar("/_pact/metrics", http.MethodGet, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *promMetrics) InstrumentHandler(handler http.Handler, label string) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		m.durations.MustCurryWith(prometheus.Labels{"path": label}),
		promhttp.InstrumentHandlerCounter(
			m.requests.MustCurryWith(prometheus.Labels{"path": label}),
			handler,
		),
	)
}

func (m *promMetrics) Gather() (interface{}, error) {
	return m.registry.Gather()
}

func (*promMetrics) Name() string {
	return "prometheus"
}
