// Package telemetry exposes prometheus metrics for HTTP traffic, rule
// evaluation and the form catalogue.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/rules"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ruleEvals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtag_rule_evaluations_total",
			Help: "Rule evaluations by kind and result (pass, fail, error)",
		},
		[]string{"kind", "result"},
	)
	ruleDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vtag_rule_evaluation_duration_seconds",
			Help:    "Time spent evaluating a single rule",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"kind"},
	)

	SSEClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sse_clients",
		Help: "Number of currently connected SSE clients",
	})
	SnapshotForms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_forms",
		Help: "Number of form definitions in the in-memory catalogue",
	})
	WebhookDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vtag_webhook_deliveries_total",
		Help: "Webhook deliveries by event type and result (success, failure, dropped)",
	}, []string{"event", "result"})

	initOnce sync.Once
)

// Init registers every collector with the default registry. Repeated calls
// are no-ops.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpReqs, httpDur, ruleEvals, ruleDur, SSEClients, SnapshotForms, WebhookDeliveries)
	})
}

// RuleMetrics records rule evaluations into the prometheus collectors.
type RuleMetrics struct{}

var _ engine.Recorder = RuleMetrics{}

func (RuleMetrics) ObserveRule(kind rules.Kind, result string, elapsed time.Duration) {
	ruleEvals.WithLabelValues(string(kind), result).Inc()
	ruleDur.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		// the route pattern is only known once chi has routed the request
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
