package scoring

import (
	"math"

	"github.com/programme-lv/arena/judge"
)

// Score maps a finalized submission verdict to score deltas. An accepted
// verdict earns the tier's base score, plus the first-acceptance bonus
// exactly once per participant and problem. Any other verdict earns
// nothing and accrues the penalty configured for that verdict kind.
func (r Rules) Score(verdict judge.VerdictKind, tier Tier, firstAc bool) (pass int, bonus int, penalty int) {
	if verdict == judge.VerdictAC {
		pass = r.TierScores[tier]
		if firstAc {
			bonus = r.FirstAcBonus
		}
		return pass, bonus, 0
	}
	return 0, 0, r.Penalties[verdict]
}

// SubmissionCost prices one submission attempt: the base cost scaled by
// the language multiplier (unknown languages cost 1.0) plus the per-test
// component for every test the judge is asked to run. Token cost and
// score are independent axes; a zero-score tier still charges.
func (r Rules) SubmissionCost(langID string, testCount int) int {
	mult, ok := r.LanguageMultipliers[langID]
	if !ok {
		mult = 1.0
	}
	base := int(math.Round(float64(r.SubmissionTokens) * mult))
	return base + r.PerTestTokens*testCount
}

// HintCost prices a hint of the given level. The second return value is
// false for levels the rule set does not offer.
func (r Rules) HintCost(level int) (int, bool) {
	cost, ok := r.HintTokens[level]
	return cost, ok
}

// InferenceCost prices a metered inference call: tokens in each direction
// charged at the model's per-1000-token rate, rounded up per direction.
// Unknown models are charged at rate 1.0.
func (r Rules) InferenceCost(model string, inputTokens int, outputTokens int) int {
	rate, ok := r.ModelTokenRates[model]
	if !ok {
		rate = ModelTokenRate{Input: 1.0, Output: 1.0}
	}
	in := int(math.Ceil(float64(inputTokens) * rate.Input / 1000))
	out := int(math.Ceil(float64(outputTokens) * rate.Output / 1000))
	return in + out
}
