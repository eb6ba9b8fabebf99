package bayes

import (
	"errors"
	"math"
	"testing"

	"github.com/matchmind/betexpert/pkg/expert/facts"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatchOutcomeCPDRowsAreDistributions(t *testing.T) {
	rows := buildMatchOutcomeCPD()
	if len(rows) != 81 {
		t.Fatalf("got %d rows, want 81", len(rows))
	}
	for i, row := range rows {
		if err := validDistribution(row); err != nil {
			t.Errorf("row %d: %v", i, err)
		}
		// Home and away win probabilities keep their clamp bounds even after
		// the draw-floor renormalization; the draw mass may dip slightly
		// below its floor when renormalized but never collapses.
		if row[0] < 0.1-1e-9 || row[0] > 0.8+1e-9 {
			t.Errorf("row %d: home win %v outside [0.1, 0.8]", i, row[0])
		}
		if row[2] < 0.1-1e-9 || row[2] > 0.6+1e-9 {
			t.Errorf("row %d: away win %v outside [0.1, 0.6]", i, row[2])
		}
		if row[1] < 0.09 {
			t.Errorf("row %d: draw mass %v collapsed", i, row[1])
		}
	}
}

func TestTotalGoalsCPDRowsAreDistributions(t *testing.T) {
	rows := buildTotalGoalsCPD()
	if len(rows) != 9 {
		t.Fatalf("got %d rows, want 9", len(rows))
	}
	for i, row := range rows {
		if err := validDistribution(row); err != nil {
			t.Errorf("row %d: %v", i, err)
		}
	}
}

func TestOutcomeRowStrongHomeVsWeakAway(t *testing.T) {
	row := outcomeRow(levelStrong, levelWeak, styleBalanced, styleBalanced)
	want := [3]float64{0.8, 0.1, 0.1}
	for i := range row {
		if !almostEqual(row[i], want[i]) {
			t.Fatalf("row = %v, want %v", row, want)
		}
	}
}

func TestOutcomeRowDrawFloorRenormalizes(t *testing.T) {
	// Even mediums with an offensive home against a defensive away push the
	// raw draw mass below its floor, triggering renormalization.
	row := outcomeRow(levelMedium, levelMedium, styleOffensive, styleDefensive)
	want := [3]float64{0.65 / 1.05, 0.1 / 1.05, 0.3 / 1.05}
	for i := range row {
		if !almostEqual(row[i], want[i]) {
			t.Fatalf("row = %v, want %v", row, want)
		}
	}
	if err := validDistribution(row); err != nil {
		t.Fatal(err)
	}
}

func TestStrengthState(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.0, levelWeak},
		{0.39, levelWeak},
		{0.4, levelMedium},
		{0.69, levelMedium},
		{0.7, levelStrong},
		{1.0, levelStrong},
	}
	for _, tt := range tests {
		if got := strengthState(tt.in); got != tt.want {
			t.Errorf("strengthState(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGoalsState(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.0, goalsLow},
		{1.49, goalsLow},
		{1.5, goalsMedium},
		{2.49, goalsMedium},
		{2.5, goalsHigh},
		{4.0, goalsHigh},
	}
	for _, tt := range tests {
		if got := goalsState(tt.in); got != tt.want {
			t.Errorf("goalsState(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStyleStateDefaultsToBalanced(t *testing.T) {
	if got := styleState(facts.TeamStyle("chaotic")); got != styleBalanced {
		t.Errorf("unknown style mapped to %d, want balanced", got)
	}
	if got := styleState(facts.StyleOffensive); got != styleOffensive {
		t.Errorf("offensive mapped to %d", got)
	}
	if got := styleState(facts.StyleDefensive); got != styleDefensive {
		t.Errorf("defensive mapped to %d", got)
	}
}

func TestPredictStrongHomeFixture(t *testing.T) {
	n := NewNetwork()
	pred := n.Predict(Evidence{
		HomeStrength:      0.80, // strong
		AwayStrength:      0.30, // weak
		HomeStyle:         facts.StyleBalanced,
		AwayStyle:         facts.StyleBalanced,
		HomeGoalsTendency: 2.6, // high
		AwayGoalsTendency: 0.9, // low
	})

	home := pred[facts.BetHomeWin]
	if !almostEqual(home.Recommended, 0.75) {
		t.Errorf("home_win recommended = %v, want 0.75", home.Recommended)
	}
	if home.Confidence != facts.ConfidenceHigh {
		t.Errorf("home_win confidence = %v, want high", home.Confidence)
	}
	if !almostEqual(home.Recommended+home.NotRecommended, 1.0) {
		t.Errorf("home_win posterior does not sum to 1: %+v", home)
	}

	over := pred[facts.BetOver]
	if !almostEqual(over.Recommended, 0.605) {
		t.Errorf("over recommended = %v, want 0.605", over.Recommended)
	}
	if over.Confidence != facts.ConfidenceMedium {
		t.Errorf("over confidence = %v, want medium", over.Confidence)
	}

	if len(pred) != 5 {
		t.Errorf("got %d leaves, want 5", len(pred))
	}
}

func TestPredictLowScoringFixture(t *testing.T) {
	n := NewNetwork()
	pred := n.Predict(Evidence{
		HomeStrength:      0.50,
		AwayStrength:      0.50,
		HomeStyle:         facts.StyleBalanced,
		AwayStyle:         facts.StyleBalanced,
		HomeGoalsTendency: 1.0,
		AwayGoalsTendency: 1.0,
	})

	under := pred[facts.BetUnder]
	if !almostEqual(under.Recommended, 0.62) {
		t.Errorf("under recommended = %v, want 0.62", under.Recommended)
	}
	if under.Confidence != facts.ConfidenceMedium {
		t.Errorf("under confidence = %v, want medium", under.Confidence)
	}

	over := pred[facts.BetOver]
	if !almostEqual(over.Recommended+under.Recommended, 1.0) {
		t.Errorf("over %v and under %v do not mirror", over.Recommended, under.Recommended)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	n := NewNetwork()
	ev := Evidence{
		HomeStrength: 0.55, AwayStrength: 0.65,
		HomeStyle: facts.StyleOffensive, AwayStyle: facts.StyleDefensive,
		HomeGoalsTendency: 1.8, AwayGoalsTendency: 1.2,
	}
	first := n.Predict(ev)
	for i := 0; i < 10; i++ {
		again := n.Predict(ev)
		for bt, leaf := range first {
			if again[bt] != leaf {
				t.Fatalf("run %d: %s changed from %+v to %+v", i, bt, leaf, again[bt])
			}
		}
	}
}

func TestLeafOrDegradeIsolatesFailure(t *testing.T) {
	got := leafOrDegrade(facts.BetHomeWin, homeWinLeafCPD, [3]float64{}, errors.New("bad row"))
	if !almostEqual(got.Recommended, 0.5) || !almostEqual(got.NotRecommended, 0.5) {
		t.Errorf("degraded leaf = %+v, want 0.5/0.5", got)
	}
	if got.Confidence != facts.ConfidenceLow {
		t.Errorf("degraded confidence = %v, want low", got.Confidence)
	}
}

func TestLeafConfidenceBuckets(t *testing.T) {
	tests := []struct {
		p    float64
		want facts.Confidence
	}{
		{0.9, facts.ConfidenceHigh},
		{0.71, facts.ConfidenceHigh},
		{0.7, facts.ConfidenceMedium},
		{0.51, facts.ConfidenceMedium},
		{0.5, facts.ConfidenceLow},
		{0.2, facts.ConfidenceLow},
	}
	for _, tt := range tests {
		if got := leafConfidence(tt.p); got != tt.want {
			t.Errorf("leafConfidence(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
