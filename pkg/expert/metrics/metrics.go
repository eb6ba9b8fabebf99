// Package metrics provides Prometheus metrics for the betting expert system.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ExpertMetrics collects and exposes expert-system Prometheus metrics.
type ExpertMetrics struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Rule engine metrics
	RuleFirings      *prometheus.CounterVec
	WarningsTotal    *prometheus.CounterVec
	Recommendations  *prometheus.CounterVec
	ConcordanceTotal *prometheus.CounterVec

	// Streaming metrics
	StreamClients *prometheus.GaugeVec
}

// NewExpertMetrics creates a metrics collector with its own registry.
func NewExpertMetrics() *ExpertMetrics {
	em := &ExpertMetrics{
		registry: prometheus.NewRegistry(),

		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betexpert_analyses_total",
				Help: "Total number of matchup analyses performed",
			},
			[]string{"status"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betexpert_analysis_duration_seconds",
				Help:    "Duration of one hybrid matchup analysis",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~0.4s
			},
			[]string{"stage"},
		),

		RuleFirings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betexpert_rule_firings_total",
				Help: "Total rule firings by rule name",
			},
			[]string{"rule"},
		),
		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betexpert_warnings_total",
				Help: "Total discipline warnings emitted",
			},
			[]string{},
		),
		Recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betexpert_recommendations_total",
				Help: "Hybrid recommendations by bet type, decision and source",
			},
			[]string{"bet_type", "decision", "source"},
		),
		ConcordanceTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betexpert_concordance_total",
				Help: "Agreement between rule and Bayesian verdicts",
			},
			[]string{"concordance"},
		),
		StreamClients: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "betexpert_stream_clients",
				Help: "Currently connected WebSocket clients",
			},
			[]string{},
		),
	}

	em.registerAll()
	return em
}

func (em *ExpertMetrics) registerAll() {
	em.registry.MustRegister(
		em.AnalysesTotal,
		em.AnalysisDuration,
		em.RuleFirings,
		em.WarningsTotal,
		em.Recommendations,
		em.ConcordanceTotal,
		em.StreamClients,
	)
}

// Registry returns the underlying registry for the /metrics handler.
func (em *ExpertMetrics) Registry() *prometheus.Registry {
	return em.registry
}

// RecordAnalysis records one completed (or failed) analysis.
func (em *ExpertMetrics) RecordAnalysis(status string, durationSec float64) {
	em.AnalysesTotal.WithLabelValues(status).Inc()
	em.AnalysisDuration.WithLabelValues("total").Observe(durationSec)
}

// RecordStage records the duration of one analysis stage.
func (em *ExpertMetrics) RecordStage(stage string, durationSec float64) {
	em.AnalysisDuration.WithLabelValues(stage).Observe(durationSec)
}

// RecordRuleFirings bumps the per-rule firing counters from an engine
// summary.
func (em *ExpertMetrics) RecordRuleFirings(summary map[string]int) {
	for rule, count := range summary {
		em.RuleFirings.WithLabelValues(rule).Add(float64(count))
	}
}

// RecordRecommendation records one hybrid recommendation.
func (em *ExpertMetrics) RecordRecommendation(betType, decision, source, concordance string) {
	em.Recommendations.WithLabelValues(betType, decision, source).Inc()
	if concordance != "" {
		em.ConcordanceTotal.WithLabelValues(concordance).Inc()
	}
}

// RecordWarnings bumps the warning counter.
func (em *ExpertMetrics) RecordWarnings(count int) {
	if count > 0 {
		em.WarningsTotal.WithLabelValues().Add(float64(count))
	}
}

// UpdateStreamClients sets the connected-client gauge.
func (em *ExpertMetrics) UpdateStreamClients(count int) {
	em.StreamClients.WithLabelValues().Set(float64(count))
}

var (
	defaultMetrics *ExpertMetrics
	defaultOnce    sync.Once
)

// Default returns a shared metrics instance.
func Default() *ExpertMetrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewExpertMetrics()
	})
	return defaultMetrics
}
