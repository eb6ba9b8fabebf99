package facts

import (
	"errors"
	"math"
	"testing"
)

func TestNewTeamProfile_ClampsAndDerives(t *testing.T) {
	p, err := NewTeamProfile(TeamSummary{
		Team:                  "Bayern Munich",
		AttackingStrength:     1.4,
		DefensiveStrength:     -0.2,
		GoalsPerMatch:         2.8,
		GoalsConcededPerMatch: 0.9,
		DisciplineRating:      1.1,
		TeamStyle:             StyleOffensive,
		CleansheetRate:        0.45,
	})
	if err != nil {
		t.Fatalf("NewTeamProfile failed: %v", err)
	}

	if p.AttackingStrength != 1.0 {
		t.Errorf("attacking strength not clamped: %v", p.AttackingStrength)
	}
	if p.DefensiveStrength != 0.0 {
		t.Errorf("defensive strength not clamped: %v", p.DefensiveStrength)
	}
	if p.DisciplineRating != 1.0 {
		t.Errorf("discipline rating not clamped: %v", p.DisciplineRating)
	}
	if got := p.GoalDiffPerMatch; math.Abs(got-1.9) > 1e-9 {
		t.Errorf("goal difference = %v, want 1.9", got)
	}
}

func TestNewTeamProfile_OverallIsMeanOfStrengths(t *testing.T) {
	cases := []struct{ attack, defense float64 }{
		{0.75, 0.65},
		{0.0, 1.0},
		{0.33, 0.91},
		{1.5, -0.5}, // clamped to 1.0 and 0.0
	}
	for _, tc := range cases {
		p, err := NewTeamProfile(TeamSummary{
			Team:              "Team",
			AttackingStrength: tc.attack,
			DefensiveStrength: tc.defense,
		})
		if err != nil {
			t.Fatalf("NewTeamProfile failed: %v", err)
		}
		want := (p.AttackingStrength + p.DefensiveStrength) / 2
		if math.Abs(p.OverallStrength-want) > 1e-9 {
			t.Errorf("overall = %v, want %v for attack=%v defense=%v",
				p.OverallStrength, want, tc.attack, tc.defense)
		}
	}
}

func TestNewTeamProfile_UnknownStyleDefaultsToBalanced(t *testing.T) {
	p, err := NewTeamProfile(TeamSummary{
		Team:              "Team",
		AttackingStrength: 0.5,
		DefensiveStrength: 0.5,
		TeamStyle:         TeamStyle("chaotic"),
	})
	if err != nil {
		t.Fatalf("NewTeamProfile failed: %v", err)
	}
	if p.TeamStyle != StyleBalanced {
		t.Errorf("style = %v, want balanced", p.TeamStyle)
	}
}

func TestNewTeamProfile_RequiresName(t *testing.T) {
	if _, err := NewTeamProfile(TeamSummary{}); err == nil {
		t.Error("expected error for empty team name")
	}
}

func TestNewBetRequest(t *testing.T) {
	tests := []struct {
		name          string
		betType       BetType
		threshold     float64
		wantErr       bool
		wantThreshold float64
	}{
		{name: "home win", betType: BetHomeWin, wantThreshold: 0},
		{name: "draw", betType: BetDraw, wantThreshold: 0},
		{name: "over defaults threshold", betType: BetOver, wantThreshold: 2.5},
		{name: "under defaults threshold", betType: BetUnder, wantThreshold: 2.5},
		{name: "over custom threshold", betType: BetOver, threshold: 3.5, wantThreshold: 3.5},
		{name: "invalid type", betType: BetType("both_teams_score"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewBetRequest(tt.betType, "Arsenal", "Chelsea", 0, tt.threshold)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBetType) {
					t.Fatalf("error = %v, want ErrInvalidBetType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBetRequest failed: %v", err)
			}
			if req.Threshold != tt.wantThreshold {
				t.Errorf("threshold = %v, want %v", req.Threshold, tt.wantThreshold)
			}
		})
	}
}

func TestStandardBetRequests(t *testing.T) {
	reqs := StandardBetRequests("Arsenal", "Chelsea")
	if len(reqs) != 5 {
		t.Fatalf("got %d requests, want 5", len(reqs))
	}
	seen := make(map[BetType]bool)
	for _, r := range reqs {
		seen[r.BetType] = true
		if r.BetType == BetOver || r.BetType == BetUnder {
			if r.Threshold != DefaultGoalThreshold {
				t.Errorf("%s threshold = %v, want %v", r.BetType, r.Threshold, DefaultGoalThreshold)
			}
		}
	}
	if len(seen) != 5 {
		t.Errorf("bet types not distinct: %v", seen)
	}
}

func TestNewRecommendation_Validation(t *testing.T) {
	_, err := NewRecommendation(BetHomeWin, "A", "B", Decision("maybe"), ConfidenceHigh, 0, "", nil)
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("error = %v, want ErrInvalidDecision", err)
	}

	_, err = NewRecommendation(BetHomeWin, "A", "B", Recommended, Confidence("certain"), 0, "", nil)
	if !errors.Is(err, ErrInvalidConfidence) {
		t.Errorf("error = %v, want ErrInvalidConfidence", err)
	}
}

func TestNewRecommendation_ProbabilityFromConfidence(t *testing.T) {
	tests := []struct {
		confidence Confidence
		want       float64
	}{
		{ConfidenceHigh, 0.75},
		{ConfidenceMedium, 0.60},
		{ConfidenceLow, 0.55},
		{ConfidenceUnavailable, 0.50},
	}
	for _, tt := range tests {
		rec, err := NewRecommendation(BetDraw, "A", "B", Recommended, tt.confidence, 0, "", nil)
		if err != nil {
			t.Fatalf("NewRecommendation(%s) failed: %v", tt.confidence, err)
		}
		if rec.Probability != tt.want {
			t.Errorf("probability for %s = %v, want %v", tt.confidence, rec.Probability, tt.want)
		}
		if rec.ID == "" {
			t.Error("recommendation id is empty")
		}
	}
}
