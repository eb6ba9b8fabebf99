// Package rules implements the forward-chaining heuristic side of the expert
// system: a working memory of declared facts and a fixed catalogue of betting
// rules evaluated against it.
package rules

import (
	"fmt"
	"log"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Engine is a short-lived evaluation context for one analysis. Declare the
// team profiles, the matchup and the bet requests, call Run, then read the
// accumulated outputs. An Engine must not be shared across concurrent
// analyses; build a fresh one (or Reset) per matchup.
type Engine struct {
	teams    map[string]facts.TeamProfile
	matchups []facts.MatchupProfile
	bets     []facts.BetRequest

	recommendations []facts.Recommendation
	warnings        map[string]string
	firedCount      map[string]int
}

// NewEngine returns an empty evaluation context.
func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset clears working memory and every accumulated output.
func (e *Engine) Reset() {
	e.teams = make(map[string]facts.TeamProfile)
	e.matchups = nil
	e.bets = nil
	e.recommendations = nil
	e.warnings = make(map[string]string)
	e.firedCount = make(map[string]int)
}

// Declare adds an immutable fact to working memory. Supported fact types are
// facts.TeamProfile, facts.MatchupProfile and facts.BetRequest.
func (e *Engine) Declare(fact any) error {
	switch f := fact.(type) {
	case facts.TeamProfile:
		e.teams[f.Team] = f
	case facts.MatchupProfile:
		e.matchups = append(e.matchups, f)
	case facts.BetRequest:
		e.bets = append(e.bets, f)
	default:
		return fmt.Errorf("rules: cannot declare fact of type %T", fact)
	}
	return nil
}

// Run joins the declared facts and evaluates the full catalogue, firing each
// rule once per distinct satisfying combination. Recommendations emitted by
// firings are terminal facts: they are recorded, never re-matched. Every
// satisfied rule produces exactly one recommendation; nothing is ranked or
// deduplicated here.
func (e *Engine) Run() {
	for _, m := range e.matchups {
		home, homeOK := e.teams[m.HomeTeam]
		away, awayOK := e.teams[m.AwayTeam]
		if !homeOK || !awayOK {
			log.Printf("[RULES] Skipping matchup %s vs %s: missing team profile", m.HomeTeam, m.AwayTeam)
			continue
		}

		// The warning rule joins only the two profiles against the matchup
		// and matches either team order, so it records under both keys.
		if msg, ok := disciplineWarning(home, away); ok {
			e.warnings[warningKey(m.HomeTeam, m.AwayTeam)] = msg
			e.warnings[warningKey(m.AwayTeam, m.HomeTeam)] = msg
		}

		for _, bet := range e.bets {
			if bet.HomeTeam != m.HomeTeam || bet.AwayTeam != m.AwayTeam {
				continue
			}
			ctx := ruleContext{Home: home, Away: away, Matchup: m, Bet: bet}
			for _, r := range catalogue {
				if r.betType != bet.BetType || !r.guard(ctx) {
					continue
				}
				e.fire(r, ctx)
			}
		}
	}
}

func (e *Engine) fire(r rule, ctx ruleContext) {
	confidence := r.confidence(ctx)
	rec, err := facts.NewRecommendation(
		r.betType, ctx.Matchup.HomeTeam, ctx.Matchup.AwayTeam,
		facts.Recommended, confidence, 0, r.explain(ctx), []string{r.name},
	)
	if err != nil {
		// Catalogue rules only emit in-enum values, so this indicates a
		// broken rule definition.
		log.Printf("[RULES] %s produced an invalid recommendation: %v", r.name, err)
		return
	}
	e.firedCount[r.name]++
	e.recommendations = append(e.recommendations, rec)
}

// Recommendations returns every recommendation fact in firing order.
func (e *Engine) Recommendations() []facts.Recommendation {
	out := make([]facts.Recommendation, len(e.recommendations))
	copy(out, e.recommendations)
	return out
}

// Warnings returns the side warnings keyed by matchup.
func (e *Engine) Warnings() map[string]string {
	out := make(map[string]string, len(e.warnings))
	for k, v := range e.warnings {
		out[k] = v
	}
	return out
}

// RulesFiredSummary returns how many times each rule fired since the last
// Reset.
func (e *Engine) RulesFiredSummary() map[string]int {
	out := make(map[string]int, len(e.firedCount))
	for k, v := range e.firedCount {
		out[k] = v
	}
	return out
}

func warningKey(team1, team2 string) string {
	return fmt.Sprintf("%s_vs_%s_discipline_warning", team1, team2)
}
