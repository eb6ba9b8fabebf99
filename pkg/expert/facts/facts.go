// Package facts defines the immutable value types shared by the rules engine,
// the Bayesian network and the hybrid combiner: team profiles, matchup
// profiles, bet requests and recommendations.
package facts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BetType is one of the five supported bet markets.
type BetType string

const (
	BetHomeWin BetType = "home_win"
	BetAwayWin BetType = "away_win"
	BetDraw    BetType = "draw"
	BetOver    BetType = "over"
	BetUnder   BetType = "under"
)

// AllBetTypes lists the supported bet types in evaluation order.
var AllBetTypes = []BetType{BetHomeWin, BetAwayWin, BetDraw, BetOver, BetUnder}

// Valid reports whether the bet type is one of the five supported markets.
func (b BetType) Valid() bool {
	switch b {
	case BetHomeWin, BetAwayWin, BetDraw, BetOver, BetUnder:
		return true
	}
	return false
}

// TeamStyle classifies how a team tends to play.
type TeamStyle string

const (
	StyleOffensive TeamStyle = "offensive"
	StyleDefensive TeamStyle = "defensive"
	StyleBalanced  TeamStyle = "balanced"
	StyleMixed     TeamStyle = "mixed"
)

// Decision is the verdict attached to a recommendation.
type Decision string

const (
	Recommended    Decision = "recommended"
	NotRecommended Decision = "not_recommended"
	NotEvaluated   Decision = "not_evaluated"
)

// Confidence buckets a recommendation's strength.
type Confidence string

const (
	ConfidenceHigh        Confidence = "high"
	ConfidenceMedium      Confidence = "medium"
	ConfidenceLow         Confidence = "low"
	ConfidenceUnavailable Confidence = "unavailable"
)

// Construction errors.
var (
	ErrInvalidBetType    = errors.New("invalid bet type")
	ErrInvalidConfidence = errors.New("invalid confidence level")
	ErrInvalidDecision   = errors.New("invalid decision")
)

// DefaultGoalThreshold is the goal line used for over/under bets when the
// caller does not supply one.
const DefaultGoalThreshold = 2.5

// TeamSummary is the raw per-team aggregate produced by an external
// statistics pipeline. The expert core never computes these numbers itself;
// it only consumes them.
type TeamSummary struct {
	Team                  string    `json:"team"`
	AttackingStrength     float64   `json:"attacking_strength"`
	DefensiveStrength     float64   `json:"defensive_strength"`
	GoalsPerMatch         float64   `json:"goals_per_match"`
	GoalsConcededPerMatch float64   `json:"goals_conceded_per_match"`
	DisciplineRating      float64   `json:"discipline_rating"`
	TeamStyle             TeamStyle `json:"team_style"`
	CleansheetRate        float64   `json:"cleansheet_rate"`
}

// TeamProfile is the validated, read-only view of one team's statistics.
// All strength-like fields are clamped to [0,1] at construction and the
// overall strength is always the mean of attacking and defensive strength.
type TeamProfile struct {
	Team                  string    `json:"team"`
	AttackingStrength     float64   `json:"attacking_strength"`
	DefensiveStrength     float64   `json:"defensive_strength"`
	OverallStrength       float64   `json:"overall_strength"`
	GoalsPerMatch         float64   `json:"goals_per_match"`
	GoalsConcededPerMatch float64   `json:"goals_conceded_per_match"`
	GoalDiffPerMatch      float64   `json:"goal_difference_per_match"`
	DisciplineRating      float64   `json:"discipline_rating"`
	TeamStyle             TeamStyle `json:"team_style"`
	CleansheetRate        float64   `json:"cleansheet_rate"`
}

// NewTeamProfile builds a TeamProfile from a raw summary. Strengths, the
// discipline rating and the cleansheet rate are clamped to [0,1]; goal rates
// are floored at zero; an unknown style falls back to balanced.
func NewTeamProfile(s TeamSummary) (TeamProfile, error) {
	if s.Team == "" {
		return TeamProfile{}, errors.New("team name is required")
	}

	attack := clamp01(s.AttackingStrength)
	defense := clamp01(s.DefensiveStrength)
	goals := max(0, s.GoalsPerMatch)
	conceded := max(0, s.GoalsConcededPerMatch)

	style := s.TeamStyle
	switch style {
	case StyleOffensive, StyleDefensive, StyleBalanced, StyleMixed:
	default:
		style = StyleBalanced
	}

	return TeamProfile{
		Team:                  s.Team,
		AttackingStrength:     attack,
		DefensiveStrength:     defense,
		OverallStrength:       (attack + defense) / 2,
		GoalsPerMatch:         goals,
		GoalsConcededPerMatch: conceded,
		GoalDiffPerMatch:      goals - conceded,
		DisciplineRating:      clamp01(s.DisciplineRating),
		TeamStyle:             style,
		CleansheetRate:        clamp01(s.CleansheetRate),
	}, nil
}

// BetRequest asks the system to evaluate one bet market for a fixture.
type BetRequest struct {
	BetType  BetType `json:"bet_type"`
	HomeTeam string  `json:"home_team"`
	AwayTeam string  `json:"away_team"`

	// Odds is the bookmaker's decimal odds for the bet. Inference ignores it;
	// the value layer uses it to score the final recommendation. Zero means
	// not provided.
	Odds float64 `json:"odds,omitempty"`

	// Threshold is the goal line for over/under bets. Zero on the other
	// three types.
	Threshold float64 `json:"threshold,omitempty"`
}

// NewBetRequest validates the bet type and defaults the goal threshold for
// over/under markets. Pass zero for odds or threshold to leave them unset.
func NewBetRequest(betType BetType, homeTeam, awayTeam string, odds, threshold float64) (BetRequest, error) {
	if !betType.Valid() {
		return BetRequest{}, fmt.Errorf("%w: %q", ErrInvalidBetType, betType)
	}

	r := BetRequest{
		BetType:  betType,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Odds:     odds,
	}
	if betType == BetOver || betType == BetUnder {
		if threshold == 0 {
			threshold = DefaultGoalThreshold
		}
		r.Threshold = threshold
	}
	return r, nil
}

// StandardBetRequests builds the five standard bet requests for a fixture
// using the default goal threshold.
func StandardBetRequests(homeTeam, awayTeam string) []BetRequest {
	reqs := make([]BetRequest, 0, len(AllBetTypes))
	for _, bt := range AllBetTypes {
		req, _ := NewBetRequest(bt, homeTeam, awayTeam, 0, 0)
		reqs = append(reqs, req)
	}
	return reqs
}

// Source identifies which model(s) produced a hybrid recommendation.
type Source string

const (
	SourceHybrid       Source = "hybrid"
	SourceRulesOnly    Source = "rules_only"
	SourceBayesianOnly Source = "bayesian_only"
	SourceNone         Source = "none"
)

// Concordance records whether the rule-based and Bayesian verdicts agreed.
type Concordance string

const (
	ConcordanceHigh Concordance = "high"
	ConcordanceLow  Concordance = "low"
)

// Recommendation is the output of one rule firing or one combiner pass.
type Recommendation struct {
	ID          string      `json:"id"`
	BetType     BetType     `json:"bet_type"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	Decision    Decision    `json:"decision"`
	Confidence  Confidence  `json:"confidence"`
	Probability float64     `json:"probability"`
	Explanation string      `json:"explanation"`
	RulesFired  []string    `json:"rules_fired,omitempty"`
	Source      Source      `json:"source,omitempty"`
	Concordance Concordance `json:"concordance,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// confidenceProbability maps a confidence bucket to the baseline probability
// assigned when a rule fires.
var confidenceProbability = map[Confidence]float64{
	ConfidenceHigh:   0.75,
	ConfidenceMedium: 0.60,
	ConfidenceLow:    0.55,
}

// ProbabilityFor returns the baseline probability for a confidence bucket,
// or 0.50 for anything unmapped.
func ProbabilityFor(c Confidence) float64 {
	if p, ok := confidenceProbability[c]; ok {
		return p
	}
	return 0.50
}

// NewRecommendation builds a validated recommendation. Decision and
// confidence must be in-enum; a zero probability is replaced with the
// confidence baseline.
func NewRecommendation(betType BetType, homeTeam, awayTeam string, decision Decision,
	confidence Confidence, probability float64, explanation string, rulesFired []string) (Recommendation, error) {

	switch decision {
	case Recommended, NotRecommended, NotEvaluated:
	default:
		return Recommendation{}, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
	switch confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUnavailable:
	default:
		return Recommendation{}, fmt.Errorf("%w: %q", ErrInvalidConfidence, confidence)
	}

	if probability == 0 {
		probability = ProbabilityFor(confidence)
	}

	return Recommendation{
		ID:          uuid.NewString(),
		BetType:     betType,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		Decision:    decision,
		Confidence:  confidence,
		Probability: probability,
		Explanation: explanation,
		RulesFired:  rulesFired,
		Timestamp:   time.Now().UTC(),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
