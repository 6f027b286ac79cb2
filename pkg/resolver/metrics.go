package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the resolution chain.
type Metrics struct {
	ResolutionsTotal   *prometheus.CounterVec
	StageAttemptsTotal *prometheus.CounterVec
	StageSeconds       *prometheus.HistogramVec
	MatchScore         *prometheus.HistogramVec
	ReviewFlaggedTotal *prometheus.CounterVec
}

// DefaultMetrics creates metrics on the default registry.
func DefaultMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics creates a new set of resolution metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_resolutions_total",
				Help: "Completed resolutions by source, tier and platform",
			},
			[]string{"source", "tier", "platform"},
		),
		StageAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_stage_attempts_total",
				Help: "Stage attempts by outcome (found, empty, error)",
			},
			[]string{"source", "outcome"},
		),
		StageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radar_stage_seconds",
				Help:    "Stage latency",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 30, 60},
			},
			[]string{"source"},
		),
		MatchScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "radar_match_score",
				Help:    "Confidence scores of accepted candidates",
				Buckets: []float64{0, 2, 4, 6, 8, 10, 12, 15, 20},
			},
			[]string{"source"},
		),
		ReviewFlaggedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_review_flagged_total",
				Help: "Resolutions flagged for manual review",
			},
			[]string{"source", "platform"},
		),
	}
}

// RecordResolution records a completed resolution.
func (m *Metrics) RecordResolution(source Source, tier, platform string) {
	m.ResolutionsTotal.WithLabelValues(string(source), tier, platform).Inc()
}

// RecordStageAttempt records one stage attempt.
func (m *Metrics) RecordStageAttempt(source Source, outcome string, seconds float64) {
	m.StageAttemptsTotal.WithLabelValues(string(source), outcome).Inc()
	m.StageSeconds.WithLabelValues(string(source)).Observe(seconds)
}

// RecordAccepted records the score of an accepted candidate.
func (m *Metrics) RecordAccepted(source Source, score int) {
	m.MatchScore.WithLabelValues(string(source)).Observe(float64(score))
}

// RecordReviewFlag records a needs-review resolution.
func (m *Metrics) RecordReviewFlag(source Source, platform string) {
	m.ReviewFlaggedTotal.WithLabelValues(string(source), platform).Inc()
}
