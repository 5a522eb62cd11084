// Package metrics holds the prometheus collectors for the account flows.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the flow counters.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeExpired   = "expired"
	OutcomeDelivery  = "delivery_failed"
	OutcomeError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	Registrations   *prometheus.CounterVec
	Activations     *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	AuthRejections  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry so that several
// instances can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_registrations_total",
			Help: "Registration requests by outcome.",
		}, []string{"outcome"}),
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_activations_total",
			Help: "Activation code submissions by outcome.",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		AuthRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_auth_rejections_total",
			Help: "Requests rejected by the authorization middleware.",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Registrations, m.Activations, m.Logins, m.AuthRejections, m.RequestDuration)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The helpers below are nil-safe so callers can run without metrics.

func (m *Metrics) Registration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Activation(outcome string) {
	if m != nil {
		m.Activations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Login(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Rejection(reason string) {
	if m != nil {
		m.AuthRejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
	}
}
