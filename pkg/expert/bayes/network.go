// Package bayes implements the probabilistic side of the expert system: a
// fixed-topology discrete Bayesian network over team strength, style and
// scoring variables, with exact marginal inference for the five binary
// bet-recommendation leaves.
//
// Structure:
//
//	HomeStrength, AwayStrength, HomeStyle, AwayStyle -> MatchOutcome
//	HomeGoalsTendency, AwayGoalsTendency             -> TotalGoals
//	MatchOutcome -> HomeWin/AwayWin/Draw recommendation leaves
//	TotalGoals   -> Over/Under recommendation leaves
package bayes

import (
	"fmt"
	"log"
	"math"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Evidence holds the six observed variables for one fixture, in their raw
// (continuous / categorical) domain form. Discretization happens inside
// Predict and is total: any value maps to some network state.
type Evidence struct {
	HomeStrength      float64
	AwayStrength      float64
	HomeStyle         facts.TeamStyle
	AwayStyle         facts.TeamStyle
	HomeGoalsTendency float64 // goals scored per match
	AwayGoalsTendency float64
}

// LeafResult is the posterior of one binary recommendation leaf.
type LeafResult struct {
	NotRecommended float64          `json:"not_recommended"`
	Recommended    float64          `json:"recommended"`
	Confidence     facts.Confidence `json:"confidence"`
}

// Prediction maps each bet type to its leaf posterior.
type Prediction map[facts.BetType]LeafResult

// Network is the compiled model: the two procedurally generated inner CPDs
// plus the fixed leaf tables. It is immutable after construction and safe
// for concurrent Predict calls.
type Network struct {
	outcomeCPD [][3]float64 // 81 rows, indexed by the four outcome parents
	goalsCPD   [][3]float64 // 9 rows, indexed by the two goals parents
}

// NewNetwork compiles the network CPDs.
func NewNetwork() *Network {
	return &Network{
		outcomeCPD: buildMatchOutcomeCPD(),
		goalsCPD:   buildTotalGoalsCPD(),
	}
}

// Predict discretizes the evidence, conditions the network and returns the
// exact posterior of each recommendation leaf. A failure computing one leaf
// is isolated: that leaf degrades to an even 0.5/0.5 split with low
// confidence and the remaining leaves are still computed.
func (n *Network) Predict(ev Evidence) Prediction {
	outcome, outcomeErr := n.outcomeMarginal(ev)
	goals, goalsErr := n.goalsMarginal(ev)

	pred := make(Prediction, 5)
	pred[facts.BetHomeWin] = leafOrDegrade(facts.BetHomeWin, homeWinLeafCPD, outcome, outcomeErr)
	pred[facts.BetAwayWin] = leafOrDegrade(facts.BetAwayWin, awayWinLeafCPD, outcome, outcomeErr)
	pred[facts.BetDraw] = leafOrDegrade(facts.BetDraw, drawLeafCPD, outcome, outcomeErr)
	pred[facts.BetOver] = leafOrDegrade(facts.BetOver, overLeafCPD, goals, goalsErr)
	pred[facts.BetUnder] = leafOrDegrade(facts.BetUnder, underLeafCPD, goals, goalsErr)
	return pred
}

// outcomeMarginal returns the exact P(MatchOutcome | evidence). With all
// four parents observed this is a single CPD row lookup.
func (n *Network) outcomeMarginal(ev Evidence) ([3]float64, error) {
	hs := strengthState(ev.HomeStrength)
	as := strengthState(ev.AwayStrength)
	hst := styleState(ev.HomeStyle)
	ast := styleState(ev.AwayStyle)

	row := n.outcomeCPD[((hs*3+as)*3+hst)*3+ast]
	if err := validDistribution(row); err != nil {
		return row, fmt.Errorf("match outcome marginal: %w", err)
	}
	return row, nil
}

// goalsMarginal returns the exact P(TotalGoals | evidence).
func (n *Network) goalsMarginal(ev Evidence) ([3]float64, error) {
	hg := goalsState(ev.HomeGoalsTendency)
	ag := goalsState(ev.AwayGoalsTendency)

	row := n.goalsCPD[hg*3+ag]
	if err := validDistribution(row); err != nil {
		return row, fmt.Errorf("total goals marginal: %w", err)
	}
	return row, nil
}

// leafOrDegrade marginalizes one binary leaf over its parent posterior, or
// degrades it to an uninformative split when the parent computation failed.
func leafOrDegrade(bt facts.BetType, cpd [2][3]float64, parent [3]float64, err error) LeafResult {
	if err != nil {
		log.Printf("[BAYES] Inference failed for %s, degrading to 0.5/0.5: %v", bt, err)
		return LeafResult{NotRecommended: 0.5, Recommended: 0.5, Confidence: facts.ConfidenceLow}
	}

	var not, rec float64
	for state := 0; state < 3; state++ {
		not += cpd[0][state] * parent[state]
		rec += cpd[1][state] * parent[state]
	}
	return LeafResult{
		NotRecommended: not,
		Recommended:    rec,
		Confidence:     leafConfidence(rec),
	}
}

// leafConfidence buckets the recommended posterior.
func leafConfidence(recommended float64) facts.Confidence {
	switch {
	case recommended > 0.7:
		return facts.ConfidenceHigh
	case recommended > 0.5:
		return facts.ConfidenceMedium
	default:
		return facts.ConfidenceLow
	}
}

// Discretization of the continuous evidence. Total functions: every input
// lands in some state, with unknown styles treated as balanced.

func strengthState(v float64) int {
	switch {
	case v < 0.4:
		return levelWeak
	case v < 0.7:
		return levelMedium
	default:
		return levelStrong
	}
}

func styleState(s facts.TeamStyle) int {
	switch s {
	case facts.StyleOffensive:
		return styleOffensive
	case facts.StyleDefensive:
		return styleDefensive
	default:
		return styleBalanced
	}
}

func goalsState(v float64) int {
	switch {
	case v < 1.5:
		return goalsLow
	case v < 2.5:
		return goalsMedium
	default:
		return goalsHigh
	}
}

func validDistribution(p [3]float64) error {
	var sum float64
	for _, v := range p {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("invalid probability %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("distribution sums to %v", sum)
	}
	return nil
}
