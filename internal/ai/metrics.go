package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provider attempts. A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_provider_attempts_total",
			Help: "AI provider attempts by provider and outcome (success, retryable, fatal).",
		}, []string{"provider", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ai_provider_attempt_duration_seconds",
			Help:    "Wall time of a single AI provider attempt.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
	}
	reg.MustRegister(m.attempts, m.duration)
	return m
}

func (m *Metrics) observe(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(provider, outcome).Inc()
	m.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
