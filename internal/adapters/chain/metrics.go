package chain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded by ExplorerMetrics.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// ExplorerMetrics counts explorer API calls per chain and action.
type ExplorerMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewExplorerMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewExplorerMetrics(reg prometheus.Registerer) *ExplorerMetrics {
	m := &ExplorerMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "explorer_requests_total",
				Help: "Total number of explorer API requests",
			},
			[]string{"chain", "action", "outcome"}, // outcome: success|empty|error
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "explorer_request_duration_seconds",
				Help:    "Explorer API latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"chain", "action"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// Observe records one finished request.
func (m *ExplorerMetrics) Observe(chain, action, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(chain, action, outcome).Inc()
	m.duration.WithLabelValues(chain, action).Observe(latency.Seconds())
}
