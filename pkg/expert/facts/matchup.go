package facts

import "math"

// Advantage thresholds for matchup classification.
const (
	// AdvantageMargin is the minimum strength difference before one side is
	// credited with an advantage.
	AdvantageMargin = 0.05
	// ClearFavoriteMargin is the minimum overall strength difference before
	// one side is a clear favorite.
	ClearFavoriteMargin = 0.15
	// MatchTypeMargin is the minimum gap between average attacking and
	// defensive strength before a fixture is attack- or defense-focused.
	MatchTypeMargin = 0.1
)

// MatchType classifies the expected character of a fixture.
type MatchType string

const (
	MatchBalanced       MatchType = "balanced"
	MatchAttackFocused  MatchType = "attack_focused"
	MatchDefenseFocused MatchType = "defense_focused"
)

// MatchupProfile compares two team profiles for one ordered (home, away)
// fixture. It is derived purely from the two profiles and immutable once
// built; rebuild it if either profile changes.
type MatchupProfile struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`

	// Advantage fields name the stronger side when its lead exceeds
	// AdvantageMargin, else they are empty. Margins are absolute differences.
	AttackingAdvantage string  `json:"attacking_advantage"`
	AttackingMargin    float64 `json:"attacking_margin"`
	DefensiveAdvantage string  `json:"defensive_advantage"`
	DefensiveMargin    float64 `json:"defensive_margin"`
	OverallAdvantage   string  `json:"overall_advantage"`
	OverallMargin      float64 `json:"overall_margin"`

	// ClearFavorite is the overall advantage holder when the overall margin
	// exceeds ClearFavoriteMargin, else empty.
	ClearFavorite string    `json:"clear_favorite"`
	MatchType     MatchType `json:"match_type"`
}

// BuildMatchup derives the matchup profile for home vs away.
func BuildMatchup(home, away TeamProfile) MatchupProfile {
	attackingDiff := home.AttackingStrength - away.AttackingStrength
	defensiveDiff := home.DefensiveStrength - away.DefensiveStrength
	overallDiff := home.OverallStrength - away.OverallStrength

	m := MatchupProfile{
		HomeTeam:        home.Team,
		AwayTeam:        away.Team,
		AttackingMargin: math.Abs(attackingDiff),
		DefensiveMargin: math.Abs(defensiveDiff),
		OverallMargin:   math.Abs(overallDiff),
	}

	if m.AttackingMargin > AdvantageMargin {
		m.AttackingAdvantage = pickTeam(attackingDiff, home.Team, away.Team)
	}
	if m.DefensiveMargin > AdvantageMargin {
		m.DefensiveAdvantage = pickTeam(defensiveDiff, home.Team, away.Team)
	}
	if m.OverallMargin > AdvantageMargin {
		m.OverallAdvantage = pickTeam(overallDiff, home.Team, away.Team)
		if m.OverallMargin > ClearFavoriteMargin {
			m.ClearFavorite = m.OverallAdvantage
		}
	}

	m.MatchType = classifyMatchType(home, away)
	return m
}

// classifyMatchType weighs average strengths first, then lets team styles
// override: any offensive side tilts a balanced fixture toward attack, while
// two defensive sides always make it defense-focused.
func classifyMatchType(home, away TeamProfile) MatchType {
	avgAttacking := (home.AttackingStrength + away.AttackingStrength) / 2
	avgDefensive := (home.DefensiveStrength + away.DefensiveStrength) / 2

	matchType := MatchBalanced
	if avgAttacking > avgDefensive+MatchTypeMargin {
		matchType = MatchAttackFocused
	} else if avgDefensive > avgAttacking+MatchTypeMargin {
		matchType = MatchDefenseFocused
	}

	if home.TeamStyle == StyleOffensive || away.TeamStyle == StyleOffensive {
		if matchType == MatchBalanced {
			matchType = MatchAttackFocused
		}
	} else if home.TeamStyle == StyleDefensive && away.TeamStyle == StyleDefensive {
		matchType = MatchDefenseFocused
	}
	return matchType
}

func pickTeam(diff float64, home, away string) string {
	if diff > 0 {
		return home
	}
	return away
}
