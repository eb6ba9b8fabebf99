// Package hybrid reconciles the rule engine's recommendations with the
// Bayesian network's posteriors into one verdict per bet type.
package hybrid

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchmind/betexpert/pkg/expert/bayes"
	"github.com/matchmind/betexpert/pkg/expert/facts"
)

// Weights of the two models when they agree.
const (
	rulesWeight = 0.6
	bayesWeight = 0.4
)

// Combine merges rule recommendations and Bayesian leaf posteriors into one
// recommendation per bet type.
//
// When several rules fired for the same bet type, the first one in firing
// order is used and the rest are ignored; the engine still retains all of
// them. Ranking by confidence instead would change results, so the
// first-seen behavior is kept deliberately.
func Combine(ruleRecs []facts.Recommendation, bayesian bayes.Prediction, homeTeam, awayTeam string) map[facts.BetType]facts.Recommendation {
	out := make(map[facts.BetType]facts.Recommendation, len(facts.AllBetTypes))

	for _, betType := range facts.AllBetTypes {
		ruleRec, hasRule := firstForBetType(ruleRecs, betType)
		leaf, hasBayes := bayesian[betType]
		out[betType] = combineOne(betType, homeTeam, awayTeam, ruleRec, hasRule, leaf, hasBayes)
	}
	return out
}

func combineOne(betType facts.BetType, homeTeam, awayTeam string,
	ruleRec facts.Recommendation, hasRule bool, leaf bayes.LeafResult, hasBayes bool) facts.Recommendation {

	rec := facts.Recommendation{
		ID:        uuid.NewString(),
		BetType:   betType,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		Timestamp: time.Now().UTC(),
	}

	switch {
	case hasRule && hasBayes:
		bayesRecommends := leaf.Recommended > 0.5
		rulesRecommend := ruleRec.Decision == facts.Recommended

		if rulesRecommend == bayesRecommends {
			// Agreement: blend probabilities, keep the rule's story.
			rec.Decision = ruleRec.Decision
			rec.Probability = rulesWeight*ruleRec.Probability + bayesWeight*leaf.Recommended
			rec.Confidence = ruleRec.Confidence
			rec.Explanation = ruleRec.Explanation
			rec.Concordance = facts.ConcordanceHigh
			rec.RulesFired = ruleRec.RulesFired
			rec.Source = facts.SourceHybrid
		} else {
			// Disagreement: the rule verdict wins (it is explainable) but
			// confidence drops and the dissent is surfaced.
			rec.Decision = ruleRec.Decision
			rec.Probability = ruleRec.Probability
			rec.Confidence = facts.ConfidenceMedium
			rec.Explanation = ruleRec.Explanation +
				fmt.Sprintf("\n[Note: the Bayesian network suggests the opposite at %.1f%%]", leaf.Recommended*100)
			rec.Concordance = facts.ConcordanceLow
			rec.RulesFired = ruleRec.RulesFired
			rec.Source = facts.SourceHybrid
		}

	case hasRule:
		rec.Decision = ruleRec.Decision
		rec.Probability = ruleRec.Probability
		rec.Confidence = ruleRec.Confidence
		rec.Explanation = ruleRec.Explanation
		rec.RulesFired = ruleRec.RulesFired
		rec.Source = facts.SourceRulesOnly

	case hasBayes:
		if leaf.Recommended > 0.5 {
			rec.Decision = facts.Recommended
			rec.Probability = leaf.Recommended
		} else {
			rec.Decision = facts.NotRecommended
			rec.Probability = 1 - leaf.Recommended
		}
		rec.Confidence = probabilityConfidence(rec.Probability)
		rec.Explanation = fmt.Sprintf("Based on probabilistic analysis (%.1f%%)", rec.Probability*100)
		rec.Source = facts.SourceBayesianOnly

	default:
		rec.Decision = facts.NotEvaluated
		rec.Probability = 0.5
		rec.Confidence = facts.ConfidenceUnavailable
		rec.Explanation = "Not enough information to evaluate this bet"
		rec.Source = facts.SourceNone
	}

	return rec
}

// firstForBetType returns the first recommendation in firing order for the
// bet type.
func firstForBetType(recs []facts.Recommendation, betType facts.BetType) (facts.Recommendation, bool) {
	for _, r := range recs {
		if r.BetType == betType {
			return r, true
		}
	}
	return facts.Recommendation{}, false
}

// probabilityConfidence buckets a Bayesian-only probability after it has
// been flipped onto the winning side.
func probabilityConfidence(p float64) facts.Confidence {
	switch {
	case p > 0.7:
		return facts.ConfidenceHigh
	case p > 0.6:
		return facts.ConfidenceMedium
	default:
		return facts.ConfidenceLow
	}
}
