package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for submission and notification counters.
const (
	OutcomeStored      = "stored"
	OutcomeInvalid     = "invalid"
	OutcomeDuplicate   = "duplicate"
	OutcomeHoneypot    = "honeypot"
	OutcomeStoreFailed = "store_failed"
	OutcomeDelivered   = "delivered"
	OutcomeFailed      = "failed"
	OutcomeSkipped     = "skipped"
	OutcomeDropped     = "dropped"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewMetrics creates and registers collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_http_errors_total",
			Help: "Error responses by route and error code",
		}, []string{"route", "method", "code"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_submissions_total",
			Help: "Submission attempts by type and outcome",
		}, []string{"type", "outcome"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_rate_limited_total",
			Help: "Requests denied by the rate limiter",
		}, []string{"scope"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_notifications_total",
			Help: "Notification deliveries by channel and outcome",
		}, []string{"channel", "outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.errors, m.submissions, m.rateLimited, m.notifications,
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest observes one completed request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordSubmission counts a submission attempt.
func (m *Metrics) RecordSubmission(typ, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(typ, outcome).Inc()
}

// RecordRateLimited counts a denied request.
func (m *Metrics) RecordRateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(scope).Inc()
}

// RecordNotification counts a delivery attempt.
func (m *Metrics) RecordNotification(channel, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, outcome).Inc()
}
