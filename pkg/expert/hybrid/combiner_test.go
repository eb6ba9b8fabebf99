package hybrid

import (
	"math"
	"strings"
	"testing"

	"github.com/matchmind/betexpert/pkg/expert/bayes"
	"github.com/matchmind/betexpert/pkg/expert/facts"
)

func ruleRec(t *testing.T, betType facts.BetType, confidence facts.Confidence, ruleName string) facts.Recommendation {
	t.Helper()
	rec, err := facts.NewRecommendation(betType, "Home", "Away", facts.Recommended, confidence, 0,
		"rule explanation for "+ruleName, []string{ruleName})
	if err != nil {
		t.Fatalf("NewRecommendation: %v", err)
	}
	return rec
}

func TestCombineAgreementBlendsProbabilities(t *testing.T) {
	rules := []facts.Recommendation{ruleRec(t, facts.BetHomeWin, facts.ConfidenceHigh, "StrongHome")}
	bayesian := bayes.Prediction{
		facts.BetHomeWin: {NotRecommended: 0.25, Recommended: 0.75, Confidence: facts.ConfidenceHigh},
	}

	out := Combine(rules, bayesian, "Home", "Away")
	got := out[facts.BetHomeWin]

	if got.Decision != facts.Recommended {
		t.Errorf("decision = %v, want recommended", got.Decision)
	}
	// 0.6*0.75 (rule high) + 0.4*0.75 (leaf) = 0.75
	if math.Abs(got.Probability-0.75) > 1e-9 {
		t.Errorf("probability = %v, want 0.75", got.Probability)
	}
	if got.Confidence != facts.ConfidenceHigh {
		t.Errorf("confidence = %v, want high (kept from rule)", got.Confidence)
	}
	if got.Concordance != facts.ConcordanceHigh {
		t.Errorf("concordance = %v, want high", got.Concordance)
	}
	if got.Source != facts.SourceHybrid {
		t.Errorf("source = %v, want hybrid", got.Source)
	}
}

func TestCombineAgreementBlendArithmetic(t *testing.T) {
	ruleRec, err := facts.NewRecommendation(facts.BetOver, "Home", "Away",
		facts.Recommended, facts.ConfidenceHigh, 0.8, "goals expected", []string{"OffensiveOver"})
	if err != nil {
		t.Fatalf("NewRecommendation: %v", err)
	}
	bayesian := bayes.Prediction{
		facts.BetOver: {NotRecommended: 0.4, Recommended: 0.6, Confidence: facts.ConfidenceMedium},
	}

	got := Combine([]facts.Recommendation{ruleRec}, bayesian, "Home", "Away")[facts.BetOver]
	want := 0.6*0.8 + 0.4*0.6 // 0.72
	if math.Abs(got.Probability-want) > 1e-9 {
		t.Errorf("probability = %v, want %v", got.Probability, want)
	}
	if got.Concordance != facts.ConcordanceHigh {
		t.Errorf("concordance = %v, want high", got.Concordance)
	}
}

func TestCombineDisagreementKeepsRuleVerdict(t *testing.T) {
	rules := []facts.Recommendation{ruleRec(t, facts.BetHomeWin, facts.ConfidenceHigh, "StrongHome")}
	bayesian := bayes.Prediction{
		facts.BetHomeWin: {NotRecommended: 0.62, Recommended: 0.38, Confidence: facts.ConfidenceLow},
	}

	got := Combine(rules, bayesian, "Home", "Away")[facts.BetHomeWin]

	if got.Decision != facts.Recommended {
		t.Errorf("decision = %v, the rule verdict should stand", got.Decision)
	}
	if math.Abs(got.Probability-0.75) > 1e-9 {
		t.Errorf("probability = %v, want the rule's 0.75 untouched", got.Probability)
	}
	if got.Confidence != facts.ConfidenceMedium {
		t.Errorf("confidence = %v, want demoted to medium", got.Confidence)
	}
	if got.Concordance != facts.ConcordanceLow {
		t.Errorf("concordance = %v, want low", got.Concordance)
	}
	if !strings.Contains(got.Explanation, "38.0%") {
		t.Errorf("explanation should cite the opposing percentage, got %q", got.Explanation)
	}
	if !strings.Contains(got.Explanation, "rule explanation") {
		t.Errorf("explanation should keep the rule's story, got %q", got.Explanation)
	}
}

func TestCombineRulesOnly(t *testing.T) {
	rules := []facts.Recommendation{ruleRec(t, facts.BetDraw, facts.ConfidenceMedium, "BalancedDraw")}

	got := Combine(rules, bayes.Prediction{}, "Home", "Away")[facts.BetDraw]

	if got.Source != facts.SourceRulesOnly {
		t.Errorf("source = %v, want rules_only", got.Source)
	}
	if got.Decision != facts.Recommended {
		t.Errorf("decision = %v, want recommended", got.Decision)
	}
	if math.Abs(got.Probability-0.60) > 1e-9 {
		t.Errorf("probability = %v, want 0.60", got.Probability)
	}
	if got.Confidence != facts.ConfidenceMedium {
		t.Errorf("confidence = %v, want medium", got.Confidence)
	}
}

func TestCombineBayesianOnly(t *testing.T) {
	tests := []struct {
		name           string
		leaf           bayes.LeafResult
		wantDecision   facts.Decision
		wantProb       float64
		wantConfidence facts.Confidence
	}{
		{
			"strong positive", bayes.LeafResult{NotRecommended: 0.25, Recommended: 0.75},
			facts.Recommended, 0.75, facts.ConfidenceHigh,
		},
		{
			"mild positive", bayes.LeafResult{NotRecommended: 0.35, Recommended: 0.65},
			facts.Recommended, 0.65, facts.ConfidenceMedium,
		},
		{
			"weak positive", bayes.LeafResult{NotRecommended: 0.45, Recommended: 0.55},
			facts.Recommended, 0.55, facts.ConfidenceLow,
		},
		{
			"negative is flipped", bayes.LeafResult{NotRecommended: 0.72, Recommended: 0.28},
			facts.NotRecommended, 0.72, facts.ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bayesian := bayes.Prediction{facts.BetAwayWin: tt.leaf}
			got := Combine(nil, bayesian, "Home", "Away")[facts.BetAwayWin]

			if got.Source != facts.SourceBayesianOnly {
				t.Errorf("source = %v, want bayesian_only", got.Source)
			}
			if got.Decision != tt.wantDecision {
				t.Errorf("decision = %v, want %v", got.Decision, tt.wantDecision)
			}
			if math.Abs(got.Probability-tt.wantProb) > 1e-9 {
				t.Errorf("probability = %v, want %v", got.Probability, tt.wantProb)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestCombineNotEvaluated(t *testing.T) {
	out := Combine(nil, bayes.Prediction{}, "Home", "Away")

	if len(out) != len(facts.AllBetTypes) {
		t.Fatalf("got %d entries, want one per bet type", len(out))
	}
	for betType, rec := range out {
		if rec.Decision != facts.NotEvaluated {
			t.Errorf("%s: decision = %v, want not_evaluated", betType, rec.Decision)
		}
		if math.Abs(rec.Probability-0.5) > 1e-9 {
			t.Errorf("%s: probability = %v, want 0.5", betType, rec.Probability)
		}
		if rec.Confidence != facts.ConfidenceUnavailable {
			t.Errorf("%s: confidence = %v, want unavailable", betType, rec.Confidence)
		}
		if rec.Source != facts.SourceNone {
			t.Errorf("%s: source = %v, want none", betType, rec.Source)
		}
	}
}

func TestCombineUsesFirstRuleInFiringOrder(t *testing.T) {
	rules := []facts.Recommendation{
		ruleRec(t, facts.BetHomeWin, facts.ConfidenceMedium, "FirstRule"),
		ruleRec(t, facts.BetHomeWin, facts.ConfidenceHigh, "SecondRule"),
	}

	got := Combine(rules, bayes.Prediction{}, "Home", "Away")[facts.BetHomeWin]

	if len(got.RulesFired) != 1 || got.RulesFired[0] != "FirstRule" {
		t.Errorf("rules fired = %v, want the first firing kept", got.RulesFired)
	}
	if got.Confidence != facts.ConfidenceMedium {
		t.Errorf("confidence = %v, want the first rule's medium", got.Confidence)
	}
}

func TestCombineFillsIdentity(t *testing.T) {
	out := Combine(nil, bayes.Prediction{}, "Alpha", "Beta")
	for betType, rec := range out {
		if rec.HomeTeam != "Alpha" || rec.AwayTeam != "Beta" {
			t.Errorf("%s: teams = %s vs %s", betType, rec.HomeTeam, rec.AwayTeam)
		}
		if rec.ID == "" {
			t.Errorf("%s: missing recommendation id", betType)
		}
		if rec.Timestamp.IsZero() {
			t.Errorf("%s: missing timestamp", betType)
		}
	}
}
