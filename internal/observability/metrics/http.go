package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	upstreamRequestsTotal *prometheus.CounterVec
	upstreamDuration      *prometheus.HistogramVec
	normalizerStrategy    *prometheus.CounterVec
	analysisRunsTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docai",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docai",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docai",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	upstreamRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docai",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total document-AI provider calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	upstreamDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docai",
			Subsystem: "upstream",
			Name:      "duration_seconds",
			Help:      "Document-AI provider call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)
	normalizerStrategy := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docai",
			Subsystem: "normalizer",
			Name:      "strategy_total",
			Help:      "Parse payload variants that produced document text.",
		},
		[]string{"service", "strategy"},
	)
	analysisRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docai",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Contract analysis runs by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		upstreamRequestsTotal,
		upstreamDuration,
		normalizerStrategy,
		analysisRunsTotal,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		service:               service,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		upstreamRequestsTotal: upstreamRequestsTotal,
		upstreamDuration:      upstreamDuration,
		normalizerStrategy:    normalizerStrategy,
		analysisRunsTotal:     analysisRunsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		// Pattern is filled in by ServeMux when this wraps the mux directly.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// ObserveUpstream records one provider call.
func (m *HTTPServerMetrics) ObserveUpstream(operation, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.upstreamRequestsTotal.WithLabelValues(m.service, operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordNormalizerStrategy(strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.normalizerStrategy.WithLabelValues(m.service, strategy).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysis(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.analysisRunsTotal.WithLabelValues(m.service, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
