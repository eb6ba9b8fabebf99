// Package analyzer orchestrates one hybrid matchup analysis: rules engine
// evaluation, Bayesian inference and combination, over a pair of team
// profiles.
package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchmind/betexpert/pkg/expert/bayes"
	"github.com/matchmind/betexpert/pkg/expert/facts"
	"github.com/matchmind/betexpert/pkg/expert/hybrid"
	"github.com/matchmind/betexpert/pkg/expert/metrics"
	"github.com/matchmind/betexpert/pkg/expert/rules"
)

// Analysis is the complete output for one fixture.
type Analysis struct {
	ID          string    `json:"id"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	GeneratedAt time.Time `json:"generated_at"`

	Matchup facts.MatchupProfile `json:"matchup"`

	// Raw per-model outputs.
	RuleRecommendations []facts.Recommendation `json:"rule_recommendations"`
	Warnings            map[string]string      `json:"warnings,omitempty"`
	RulesFired          map[string]int         `json:"rules_fired,omitempty"`
	Bayesian            bayes.Prediction       `json:"bayesian_results"`

	// Hybrid is the reconciled verdict per bet type.
	Hybrid map[facts.BetType]facts.Recommendation `json:"hybrid_recommendations"`
}

// Analyzer runs hybrid analyses. The compiled network is shared across
// analyses (it is immutable); the rules engine is built fresh per call so
// no working memory leaks between fixtures.
type Analyzer struct {
	network *bayes.Network
	metrics *metrics.ExpertMetrics
}

// New creates an analyzer. A nil metrics collector disables instrumentation.
func New(m *metrics.ExpertMetrics) *Analyzer {
	return &Analyzer{
		network: bayes.NewNetwork(),
		metrics: m,
	}
}

// Analyze evaluates the five standard bet markets for home vs away.
func (a *Analyzer) Analyze(home, away facts.TeamProfile) (*Analysis, error) {
	return a.AnalyzeBets(home, away, facts.StandardBetRequests(home.Team, away.Team))
}

// AnalyzeBets evaluates the given bet requests for home vs away. Every
// request must reference the two profiled teams.
func (a *Analyzer) AnalyzeBets(home, away facts.TeamProfile, bets []facts.BetRequest) (*Analysis, error) {
	start := time.Now()

	for _, b := range bets {
		if b.HomeTeam != home.Team || b.AwayTeam != away.Team {
			a.recordAnalysis("rejected", start)
			return nil, fmt.Errorf("bet request %s is for %s vs %s, not %s vs %s",
				b.BetType, b.HomeTeam, b.AwayTeam, home.Team, away.Team)
		}
	}

	matchup := facts.BuildMatchup(home, away)

	// Rules pass: fresh engine per analysis.
	rulesStart := time.Now()
	engine := rules.NewEngine()
	engine.Declare(home)
	engine.Declare(away)
	engine.Declare(matchup)
	for _, b := range bets {
		engine.Declare(b)
	}
	engine.Run()
	ruleRecs := engine.Recommendations()
	warnings := engine.Warnings()
	fired := engine.RulesFiredSummary()
	a.recordStage("rules", rulesStart)

	// Bayesian pass: the same two profiles reduced to six evidence fields.
	bayesStart := time.Now()
	prediction := a.network.Predict(bayes.Evidence{
		HomeStrength:      home.OverallStrength,
		AwayStrength:      away.OverallStrength,
		HomeStyle:         home.TeamStyle,
		AwayStyle:         away.TeamStyle,
		HomeGoalsTendency: home.GoalsPerMatch,
		AwayGoalsTendency: away.GoalsPerMatch,
	})
	a.recordStage("bayes", bayesStart)

	// Reconciliation.
	combineStart := time.Now()
	combined := hybrid.Combine(ruleRecs, prediction, home.Team, away.Team)
	a.recordStage("combine", combineStart)

	if a.metrics != nil {
		a.metrics.RecordRuleFirings(fired)
		a.metrics.RecordWarnings(len(warnings))
		for _, rec := range combined {
			a.metrics.RecordRecommendation(string(rec.BetType), string(rec.Decision),
				string(rec.Source), string(rec.Concordance))
		}
	}
	a.recordAnalysis("ok", start)

	return &Analysis{
		ID:                  uuid.NewString(),
		HomeTeam:            home.Team,
		AwayTeam:            away.Team,
		GeneratedAt:         time.Now().UTC(),
		Matchup:             matchup,
		RuleRecommendations: ruleRecs,
		Warnings:            warnings,
		RulesFired:          fired,
		Bayesian:            prediction,
		Hybrid:              combined,
	}, nil
}

func (a *Analyzer) recordStage(stage string, start time.Time) {
	if a.metrics != nil {
		a.metrics.RecordStage(stage, time.Since(start).Seconds())
	}
}

func (a *Analyzer) recordAnalysis(status string, start time.Time) {
	if a.metrics != nil {
		a.metrics.RecordAnalysis(status, time.Since(start).Seconds())
	}
}
