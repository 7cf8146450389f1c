package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics of the HTTP API.
type Metrics struct {
	// Resolutions counts citation resolutions, labeled by action and outcome
	// ("ok" or the failure kind).
	Resolutions *prometheus.CounterVec

	// Suggestions counts suggestion queries, labeled by source.
	Suggestions *prometheus.CounterVec

	// RequestDuration observes HTTP request duration in seconds, labeled by route and status class.
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the metrics with reg under namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolve",
			Name:      "resolutions_total",
			Help:      "Citation resolutions by action and outcome.",
		}, []string{"action", "outcome"}),
		Suggestions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "suggest",
			Name:      "queries_total",
			Help:      "Journal suggestion queries by source.",
		}, []string{"source"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route and status class.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"route", "status"}),
	}
}

// RecordResolution counts one resolution. An empty outcome means success.
func (m *Metrics) RecordResolution(action, outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	m.Resolutions.WithLabelValues(action, outcome).Inc()
}

// RecordSuggestion counts one suggestion query.
func (m *Metrics) RecordSuggestion(source string) {
	m.Suggestions.WithLabelValues(source).Inc()
}

// RecordRequest observes one HTTP request.
func (m *Metrics) RecordRequest(route string, status int, seconds float64) {
	m.RequestDuration.WithLabelValues(route, statusClass(status)).Observe(seconds)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
