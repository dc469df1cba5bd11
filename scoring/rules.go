package scoring

import (
	"fmt"

	"github.com/programme-lv/arena/judge"
)

// Tier is the difficulty bucket of a problem, determining its base score.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// ValidTier reports whether t is one of the four difficulty buckets.
func ValidTier(t Tier) bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// ModelTokenRate prices inference usage of one model, per 1000 tokens in
// each direction.
type ModelTokenRate struct {
	Input  float64
	Output float64
}

// Rules is the immutable rule set of one competition. It is validated
// once at competition creation; afterwards every scoring decision reads
// from it without further checks.
type Rules struct {
	// base pass score per difficulty tier
	TierScores map[Tier]int

	// one-time bonus for the first accepted submission to a problem;
	// zero disables the bonus
	FirstAcBonus int

	// penalty per failed submission, by verdict kind
	Penalties map[judge.VerdictKind]int

	// base token cost of one submission
	SubmissionTokens int

	// optional extra token cost per test case the judge is asked to run
	PerTestTokens int

	// submission cost multiplier per language id; missing ids cost 1.0
	LanguageMultipliers map[string]float64

	// token cost of a hint, by escalating hint level (1-based)
	HintTokens map[int]int

	// inference metering rates per model id; missing models rate 1.0/1.0
	ModelTokenRates map[string]ModelTokenRate

	// ranking bonus lambda*remaining/initial; zero disables the term
	EfficiencyLambda int

	// terminate a participant once they solve every problem
	TerminateOnAllSolved bool
}

// DefaultRules returns the stock rule table contests start from.
func DefaultRules() Rules {
	return Rules{
		TierScores: map[Tier]int{
			TierBronze:   100,
			TierSilver:   200,
			TierGold:     500,
			TierPlatinum: 1000,
		},
		FirstAcBonus: 100,
		Penalties: map[judge.VerdictKind]int{
			judge.VerdictWA:  10,
			judge.VerdictRE:  10,
			judge.VerdictCE:  5,
			judge.VerdictTLE: 10,
			judge.VerdictMLE: 10,
		},
		SubmissionTokens:    100,
		PerTestTokens:       0,
		LanguageMultipliers: map[string]float64{},
		HintTokens: map[int]int{
			1: 500,
			2: 1000,
			3: 1500,
		},
		ModelTokenRates:  map[string]ModelTokenRate{},
		EfficiencyLambda: 0,
	}
}

// Validate checks a rule set before a competition is created with it.
func (r Rules) Validate() error {
	if len(r.TierScores) == 0 {
		return fmt.Errorf("tier score table is empty")
	}
	for tier, score := range r.TierScores {
		if !ValidTier(tier) {
			return fmt.Errorf("unknown tier %q in score table", tier)
		}
		if score < 0 {
			return fmt.Errorf("tier %q has negative score %d", tier, score)
		}
	}
	if r.FirstAcBonus < 0 {
		return fmt.Errorf("first acceptance bonus is negative")
	}
	for kind, penalty := range r.Penalties {
		if !judge.KnownVerdict(kind) {
			return fmt.Errorf("unknown verdict kind %q in penalty table", kind)
		}
		if kind == judge.VerdictAC {
			return fmt.Errorf("accepted verdict cannot carry a penalty")
		}
		if penalty < 0 {
			return fmt.Errorf("verdict %q has negative penalty %d", kind, penalty)
		}
	}
	if r.SubmissionTokens < 0 {
		return fmt.Errorf("submission token cost is negative")
	}
	if r.PerTestTokens < 0 {
		return fmt.Errorf("per-test token cost is negative")
	}
	for lang, mult := range r.LanguageMultipliers {
		if mult <= 0 {
			return fmt.Errorf("language %q has non-positive multiplier %f", lang, mult)
		}
	}
	for level := 1; level <= len(r.HintTokens); level++ {
		if _, ok := r.HintTokens[level]; !ok {
			return fmt.Errorf("hint levels must be contiguous from 1, missing level %d", level)
		}
	}
	for level, cost := range r.HintTokens {
		if level < 1 {
			return fmt.Errorf("hint level %d is below 1", level)
		}
		if cost < 0 {
			return fmt.Errorf("hint level %d has negative cost %d", level, cost)
		}
	}
	for model, rate := range r.ModelTokenRates {
		if rate.Input < 0 || rate.Output < 0 {
			return fmt.Errorf("model %q has negative token rate", model)
		}
	}
	if r.EfficiencyLambda < 0 {
		return fmt.Errorf("efficiency lambda is negative")
	}
	return nil
}
