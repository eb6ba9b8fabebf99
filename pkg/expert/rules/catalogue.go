package rules

import (
	"fmt"
	"math"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Guard thresholds for the rule catalogue. These are calibrated against
// historical tournament data and must match the values the engine was tuned
// with; change them only together with the catalogue tests.
const (
	strongAttack    = 0.59 // attacking strength considered dangerous
	eliteAttack     = 0.72 // attacking strength considered elite
	weakAttack      = 0.45 // attacking strength considered toothless
	quietAttack     = 0.40 // average attack low enough for confident unders
	weakDefense     = 0.32 // defensive strength considered leaky
	solidDefense    = 0.44 // defensive strength considered solid
	strongDefense   = 0.50 // average defense for high-confidence unders
	highDiscipline  = 0.74 // discipline rating considered very clean
	lowDiscipline   = 0.52 // discipline rating considered risky
	highScoringRate = 1.67 // goals per match considered prolific
	proficScoring   = 2.0  // goals per match for high confidence
	leakyConceding  = 1.3  // goals conceded per match considered vulnerable
	veryLeaky       = 1.5  // goals conceded per match for high confidence
	sieveConceding  = 1.8  // goals conceded per match considered a sieve

	favoriteHighMargin     = 0.25 // overall margin for high-confidence home favorite
	awayFavoriteHighMargin = 0.3  // away favorites need more to overcome the venue
	styleEdgeMargin        = 0.1  // strength gap backing a tactical style edge
	styleEdgeHighMargin    = 0.2
	dominantAwayMargin     = 0.12 // overall gap for a dominant away side
	dominantAwayHighMargin = 0.25
	drawMaxMargin          = 0.10 // overall margin still compatible with a draw
	drawTightMargin        = 0.06
	neutralGoalDiff        = 0.3 // absolute goal difference considered neutral
	tightGoalDiff          = 0.2
	combinedCleansheets    = 0.4 // summed cleansheet rate considered defensive
	overGoalsBuffer        = 0.3 // combined scoring above the line for overs
	overGoalsHighBuffer    = 0.8
	underConcededBuffer    = 0.2 // conceding below the line for unders
	underConcededHighBuf   = 0.4
)

// ruleContext is one joined combination of facts a rule is evaluated against.
type ruleContext struct {
	Home    facts.TeamProfile
	Away    facts.TeamProfile
	Matchup facts.MatchupProfile
	Bet     facts.BetRequest
}

// rule is one entry of the catalogue: a guard over a joined fact combination
// plus the confidence and explanation attached when it fires.
type rule struct {
	name       string
	betType    facts.BetType
	guard      func(ruleContext) bool
	confidence func(ruleContext) facts.Confidence
	explain    func(ruleContext) string
}

// catalogue is the fixed, ordered list of recommendation rules. Order only
// determines the order recommendations are recorded in; no rule has priority
// over another.
var catalogue = []rule{
	{
		name:    "ClearFavoriteHomeWin",
		betType: facts.BetHomeWin,
		guard: func(c ruleContext) bool {
			return c.Matchup.ClearFavorite != "" && c.Matchup.ClearFavorite == c.Matchup.HomeTeam
		},
		confidence: func(c ruleContext) facts.Confidence {
			if c.Matchup.OverallMargin > favoriteHighMargin {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s is clearly superior to %s with a %.1f%% overall edge. Playing at home, they should win comfortably.",
				c.Matchup.HomeTeam, c.Matchup.AwayTeam, c.Matchup.OverallMargin*100)
		},
	},
	{
		name:    "StrongHomeAttackVsWeakAwayDefense",
		betType: facts.BetHomeWin,
		guard: func(c ruleContext) bool {
			return c.Home.AttackingStrength > strongAttack &&
				c.Away.DefensiveStrength < weakDefense &&
				c.Home.GoalsPerMatch > highScoringRate &&
				c.Away.GoalsConcededPerMatch > leakyConceding &&
				c.Matchup.AttackingAdvantage == c.Matchup.HomeTeam
		},
		confidence: func(c ruleContext) facts.Confidence {
			factors := 0
			if c.Home.AttackingStrength > eliteAttack {
				factors++
			}
			if c.Away.DefensiveStrength < weakDefense {
				factors++
			}
			if c.Home.GoalsPerMatch > proficScoring {
				factors++
			}
			if c.Away.GoalsConcededPerMatch > veryLeaky {
				factors++
			}
			if factors >= 3 {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s holds decisive advantages: potent attack (%.2f) and an excellent scoring rate (%.1f goals/match). %s is vulnerable: weak defense (%.2f), conceding %.1f per match.",
				c.Home.Team, c.Home.AttackingStrength, c.Home.GoalsPerMatch,
				c.Away.Team, c.Away.DefensiveStrength, c.Away.GoalsConcededPerMatch)
		},
	},
	{
		name:    "OffensiveHomeVsDefensiveAway",
		betType: facts.BetHomeWin,
		guard: func(c ruleContext) bool {
			return c.Home.TeamStyle == facts.StyleOffensive &&
				c.Away.TeamStyle == facts.StyleDefensive &&
				c.Home.OverallStrength > c.Away.OverallStrength+styleEdgeMargin
		},
		confidence: func(c ruleContext) facts.Confidence {
			if c.Home.OverallStrength-c.Away.OverallStrength > styleEdgeHighMargin {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s (%s style) has the tactical edge at home against %s (%s style). Strength gap: %.2f. Offensive sides tend to make home advantage count.",
				c.Home.Team, c.Home.TeamStyle, c.Away.Team, c.Away.TeamStyle,
				c.Home.OverallStrength-c.Away.OverallStrength)
		},
	},
	{
		name:    "ClearFavoriteAwayWin",
		betType: facts.BetAwayWin,
		guard: func(c ruleContext) bool {
			return c.Matchup.ClearFavorite != "" && c.Matchup.ClearFavorite == c.Matchup.AwayTeam
		},
		confidence: func(c ruleContext) facts.Confidence {
			if c.Matchup.OverallMargin > awayFavoriteHighMargin {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s is clearly superior to %s with a %.1f%% overall edge. Despite playing away, their quality should outweigh the venue disadvantage.",
				c.Matchup.AwayTeam, c.Matchup.HomeTeam, c.Matchup.OverallMargin*100)
		},
	},
	{
		name:    "DominantAwayTeam",
		betType: facts.BetAwayWin,
		guard: func(c ruleContext) bool {
			return c.Away.AttackingStrength > eliteAttack &&
				c.Away.DefensiveStrength > solidDefense &&
				c.Away.OverallStrength > c.Home.OverallStrength+dominantAwayMargin
		},
		confidence: func(c ruleContext) facts.Confidence {
			if c.Away.OverallStrength-c.Home.OverallStrength > dominantAwayHighMargin {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s dominates both phases: excellent attack (%.2f) and a solid defense (%.2f). Overall superiority of %.2f over %s. Enough quality to win on the road.",
				c.Away.Team, c.Away.AttackingStrength, c.Away.DefensiveStrength,
				c.Away.OverallStrength-c.Home.OverallStrength, c.Home.Team)
		},
	},
	{
		name:    "BalancedDefensiveTeamsDraw",
		betType: facts.BetDraw,
		guard: func(c ruleContext) bool {
			return c.Matchup.OverallMargin < drawMaxMargin &&
				math.Min(c.Home.DefensiveStrength, c.Away.DefensiveStrength) > solidDefense &&
				c.Home.CleansheetRate+c.Away.CleansheetRate > combinedCleansheets
		},
		confidence: func(c ruleContext) facts.Confidence {
			avgDefense := (c.Home.DefensiveStrength + c.Away.DefensiveStrength) / 2
			if c.Matchup.OverallMargin < drawTightMargin && avgDefense > solidDefense {
				return facts.ConfidenceMedium
			}
			return facts.ConfidenceLow
		},
		explain: func(c ruleContext) string {
			avgDefense := (c.Home.DefensiveStrength + c.Away.DefensiveStrength) / 2
			avgCleansheets := (c.Home.CleansheetRate + c.Away.CleansheetRate) / 2
			return fmt.Sprintf("Very evenly matched sides: minimal gap of %.2f. Both are defensively sound (average %.2f) with a good cleansheet rate (%.1f%%). A typical draw profile.",
				c.Matchup.OverallMargin, avgDefense, avgCleansheets*100)
		},
	},
	{
		name:    "DisciplinedBalancedTeamsDraw",
		betType: facts.BetDraw,
		guard: func(c ruleContext) bool {
			return math.Min(c.Home.DisciplineRating, c.Away.DisciplineRating) > highDiscipline &&
				math.Abs(c.Home.GoalDiffPerMatch) < neutralGoalDiff &&
				math.Abs(c.Away.GoalDiffPerMatch) < neutralGoalDiff
		},
		confidence: func(c ruleContext) facts.Confidence {
			avgDiscipline := (c.Home.DisciplineRating + c.Away.DisciplineRating) / 2
			avgDiff := (math.Abs(c.Home.GoalDiffPerMatch) + math.Abs(c.Away.GoalDiffPerMatch)) / 2
			if avgDiscipline > highDiscipline && avgDiff < tightGoalDiff {
				return facts.ConfidenceMedium
			}
			return facts.ConfidenceLow
		},
		explain: func(c ruleContext) string {
			avgDiscipline := (c.Home.DisciplineRating + c.Away.DisciplineRating) / 2
			return fmt.Sprintf("Both sides show high discipline (average %.2f) and neutral goal differences (%.2f vs %.2f). Disciplined teams avoid unnecessary risks, which favors draws.",
				avgDiscipline, c.Home.GoalDiffPerMatch, c.Away.GoalDiffPerMatch)
		},
	},
	{
		name:    "OffensiveTeamsOver",
		betType: facts.BetOver,
		guard: func(c ruleContext) bool {
			return c.Home.AttackingStrength > strongAttack &&
				c.Away.AttackingStrength > strongAttack &&
				c.Home.GoalsPerMatch+c.Away.GoalsPerMatch > c.Bet.Threshold+overGoalsBuffer &&
				c.Matchup.MatchType == facts.MatchAttackFocused
		},
		confidence: func(c ruleContext) facts.Confidence {
			total := c.Home.GoalsPerMatch + c.Away.GoalsPerMatch
			avgAttack := (c.Home.AttackingStrength + c.Away.AttackingStrength) / 2
			if total > c.Bet.Threshold+overGoalsHighBuffer && avgAttack > eliteAttack {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			total := c.Home.GoalsPerMatch + c.Away.GoalsPerMatch
			return fmt.Sprintf("Highly offensive fixture: %s (%.2f attack, %.1f goals/match) vs %s (%.2f attack, %.1f goals/match). Combined average of %.1f goals, well above the %.1f line.",
				c.Home.Team, c.Home.AttackingStrength, c.Home.GoalsPerMatch,
				c.Away.Team, c.Away.AttackingStrength, c.Away.GoalsPerMatch,
				total, c.Bet.Threshold)
		},
	},
	{
		name:    "AttackVsWeakDefenseOver",
		betType: facts.BetOver,
		guard: func(c ruleContext) bool {
			return c.Home.AttackingStrength > eliteAttack &&
				c.Away.DefensiveStrength < weakDefense &&
				c.Away.GoalsConcededPerMatch > sieveConceding &&
				c.Home.DisciplineRating < lowDiscipline
		},
		confidence: func(c ruleContext) facts.Confidence {
			if c.Home.AttackingStrength > eliteAttack && c.Away.DefensiveStrength < weakDefense {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			return fmt.Sprintf("%s brings a lethal attack (%.2f) and low discipline (%.2f), which opens the game up. %s is very vulnerable at the back (%.2f) and concedes %.1f per match. A strong setup to clear the %.1f line.",
				c.Home.Team, c.Home.AttackingStrength, c.Home.DisciplineRating,
				c.Away.Team, c.Away.DefensiveStrength, c.Away.GoalsConcededPerMatch,
				c.Bet.Threshold)
		},
	},
	{
		name:    "StrongDefensesUnder",
		betType: facts.BetUnder,
		guard: func(c ruleContext) bool {
			return math.Min(c.Home.DefensiveStrength, c.Away.DefensiveStrength) > solidDefense &&
				math.Max(c.Home.GoalsConcededPerMatch, c.Away.GoalsConcededPerMatch) < c.Bet.Threshold-underConcededBuffer &&
				c.Home.CleansheetRate+c.Away.CleansheetRate > combinedCleansheets
		},
		confidence: func(c ruleContext) facts.Confidence {
			avgDefense := (c.Home.DefensiveStrength + c.Away.DefensiveStrength) / 2
			avgConceded := (c.Home.GoalsConcededPerMatch + c.Away.GoalsConcededPerMatch) / 2
			if avgDefense > strongDefense && avgConceded < c.Bet.Threshold-underConcededHighBuf {
				return facts.ConfidenceHigh
			}
			return facts.ConfidenceMedium
		},
		explain: func(c ruleContext) string {
			avgDefense := (c.Home.DefensiveStrength + c.Away.DefensiveStrength) / 2
			avgCleansheets := (c.Home.CleansheetRate + c.Away.CleansheetRate) / 2
			return fmt.Sprintf("A defensive fixture: both sides defend well (average %.2f) and concede little (%.1f and %.1f per match). High cleansheet rate (%.1f%%). The numbers point below the %.1f line.",
				avgDefense, c.Home.GoalsConcededPerMatch, c.Away.GoalsConcededPerMatch,
				avgCleansheets*100, c.Bet.Threshold)
		},
	},
	{
		name:    "DisciplinedLowAttackUnder",
		betType: facts.BetUnder,
		guard: func(c ruleContext) bool {
			return math.Min(c.Home.DisciplineRating, c.Away.DisciplineRating) > highDiscipline &&
				math.Max(c.Home.AttackingStrength, c.Away.AttackingStrength) < weakAttack
		},
		confidence: func(c ruleContext) facts.Confidence {
			avgDiscipline := (c.Home.DisciplineRating + c.Away.DisciplineRating) / 2
			avgAttack := (c.Home.AttackingStrength + c.Away.AttackingStrength) / 2
			if avgDiscipline > highDiscipline && avgAttack < quietAttack {
				return facts.ConfidenceMedium
			}
			return facts.ConfidenceLow
		},
		explain: func(c ruleContext) string {
			avgDiscipline := (c.Home.DisciplineRating + c.Away.DisciplineRating) / 2
			avgAttack := (c.Home.AttackingStrength + c.Away.AttackingStrength) / 2
			return fmt.Sprintf("Both sides are very disciplined (average %.2f) but carry limited attacking threat (average %.2f). A combination that typically produces tight, low-scoring games under the %.1f line.",
				avgDiscipline, avgAttack, c.Bet.Threshold)
		},
	},
}

// disciplineWarning emits the low-discipline side warning for a matchup. It
// matches on the two team profiles alone; bet requests do not gate it.
func disciplineWarning(t1, t2 facts.TeamProfile) (string, bool) {
	if math.Min(t1.DisciplineRating, t2.DisciplineRating) >= lowDiscipline {
		return "", false
	}
	risky := t2
	if t1.DisciplineRating < t2.DisciplineRating {
		risky = t1
	}
	return fmt.Sprintf("WARNING: %s has very low discipline (%.2f). High risk of cards and sendings-off that can swing the result.",
		risky.Team, risky.DisciplineRating), true
}
