// Package value scores final recommendations against bookmaker odds: edge
// over the implied probability and a fractional-Kelly stake suggestion.
// Inference never looks at odds; this layer runs strictly after it.
package value

import (
	"github.com/shopspring/decimal"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Assessor calculates betting edge and stake sizing.
type Assessor struct {
	kellyFrac   decimal.Decimal // fraction of full Kelly to stake
	maxStakePct decimal.Decimal // max stake as % of bankroll
	minEdgeBps  decimal.Decimal // minimum edge in basis points
}

// AssessorConfig configures the assessor.
type AssessorConfig struct {
	KellyFrac   float64 // Default: 0.10 (10% Kelly)
	MaxStakePct float64 // Default: 0.02 (2% max)
	MinEdgeBps  float64 // Default: 400 (4%)
}

// DefaultAssessorConfig returns conservative defaults.
func DefaultAssessorConfig() *AssessorConfig {
	return &AssessorConfig{
		KellyFrac:   0.10,
		MaxStakePct: 0.02,
		MinEdgeBps:  400,
	}
}

// NewAssessor creates a value assessor.
func NewAssessor(config *AssessorConfig) *Assessor {
	if config == nil {
		config = DefaultAssessorConfig()
	}
	defaults := DefaultAssessorConfig()
	if config.KellyFrac == 0 {
		config.KellyFrac = defaults.KellyFrac
	}
	if config.MaxStakePct == 0 {
		config.MaxStakePct = defaults.MaxStakePct
	}
	// MinEdgeBps can be 0 intentionally, so don't default it

	return &Assessor{
		kellyFrac:   decimal.NewFromFloat(config.KellyFrac),
		maxStakePct: decimal.NewFromFloat(config.MaxStakePct),
		minEdgeBps:  decimal.NewFromFloat(config.MinEdgeBps),
	}
}

// Result is the value assessment of one recommendation at given odds.
type Result struct {
	ModelProb     decimal.Decimal `json:"model_prob"`     // q from the hybrid core
	ImpliedProb   decimal.Decimal `json:"implied_prob"`   // 1/odds
	Edge          decimal.Decimal `json:"edge"`           // q - 1/odds
	EdgeBps       decimal.Decimal `json:"edge_bps"`       // edge in basis points
	KellyFraction decimal.Decimal `json:"kelly_fraction"` // raw Kelly f*
	AdjustedKelly decimal.Decimal `json:"adjusted_kelly"` // after fraction and cap
	SuggestedSize decimal.Decimal `json:"suggested_size"` // in bankroll units
	IsValueBet    bool            `json:"is_value_bet"`
	Reason        string          `json:"reason"`
}

// Assess scores a recommendation against decimal odds.
//
// For decimal odds o (stake 1 returns o on a win):
//   - implied probability = 1/o
//   - edge = q - 1/o
//   - Kelly fraction f* = (q*o - 1) / (o - 1)
func (a *Assessor) Assess(rec facts.Recommendation, odds float64, bankroll decimal.Decimal) *Result {
	result := &Result{}

	if rec.Decision != facts.Recommended {
		result.Reason = "recommendation is not a positive verdict"
		return result
	}
	if odds <= 1 {
		result.Reason = "odds must be above 1.0"
		return result
	}

	one := decimal.NewFromInt(1)
	q := decimal.NewFromFloat(rec.Probability)
	o := decimal.NewFromFloat(odds)

	result.ModelProb = q
	result.ImpliedProb = one.Div(o)
	result.Edge = q.Sub(result.ImpliedProb)
	result.EdgeBps = result.Edge.Mul(decimal.NewFromInt(10000))

	if result.EdgeBps.LessThan(a.minEdgeBps) {
		result.Reason = "edge below minimum threshold"
		return result
	}

	// f* = (q*o - 1) / (o - 1)
	kellyRaw := q.Mul(o).Sub(one).Div(o.Sub(one))
	result.KellyFraction = kellyRaw

	adjusted := decimal.Zero
	if kellyRaw.IsPositive() {
		adjusted = a.kellyFrac.Mul(kellyRaw)
	}
	if adjusted.GreaterThan(a.maxStakePct) {
		adjusted = a.maxStakePct
	}

	result.AdjustedKelly = adjusted
	result.SuggestedSize = bankroll.Mul(adjusted)
	result.IsValueBet = true
	result.Reason = "positive edge above threshold"
	return result
}
