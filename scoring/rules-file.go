package scoring

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/arena/judge"
)

type rulesTOML struct {
	TierScores           map[string]int           `toml:"tier_scores"`
	FirstAcBonus         *int                     `toml:"first_ac_bonus"`
	Penalties            map[string]int           `toml:"penalties"`
	SubmissionTokens     *int                     `toml:"submission_tokens"`
	PerTestTokens        *int                     `toml:"per_test_tokens"`
	LanguageMultipliers  map[string]float64       `toml:"language_multipliers"`
	HintTokens           map[string]int           `toml:"hint_tokens"`
	ModelTokenRates      map[string]modelRateTOML `toml:"model_token_rates"`
	EfficiencyLambda     *int                     `toml:"efficiency_lambda"`
	TerminateOnAllSolved *bool                    `toml:"terminate_on_all_solved"`
}

type modelRateTOML struct {
	Input  float64 `toml:"input"`
	Output float64 `toml:"output"`
}

// ParseRules reads a TOML rule file. Omitted sections keep the defaults,
// so a rule file only has to spell out what it changes.
func ParseRules(content []byte) (Rules, error) {
	var parsed rulesTOML
	if err := toml.Unmarshal(content, &parsed); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules toml: %w", err)
	}

	rules := DefaultRules()

	if parsed.TierScores != nil {
		rules.TierScores = map[Tier]int{}
		for tier, score := range parsed.TierScores {
			rules.TierScores[Tier(tier)] = score
		}
	}
	if parsed.FirstAcBonus != nil {
		rules.FirstAcBonus = *parsed.FirstAcBonus
	}
	if parsed.Penalties != nil {
		rules.Penalties = map[judge.VerdictKind]int{}
		for kind, penalty := range parsed.Penalties {
			rules.Penalties[judge.VerdictKind(kind)] = penalty
		}
	}
	if parsed.SubmissionTokens != nil {
		rules.SubmissionTokens = *parsed.SubmissionTokens
	}
	if parsed.PerTestTokens != nil {
		rules.PerTestTokens = *parsed.PerTestTokens
	}
	if parsed.LanguageMultipliers != nil {
		rules.LanguageMultipliers = parsed.LanguageMultipliers
	}
	if parsed.HintTokens != nil {
		rules.HintTokens = map[int]int{}
		for key, cost := range parsed.HintTokens {
			level, err := parseHintLevel(key)
			if err != nil {
				return Rules{}, err
			}
			rules.HintTokens[level] = cost
		}
	}
	if parsed.ModelTokenRates != nil {
		rules.ModelTokenRates = map[string]ModelTokenRate{}
		for model, rate := range parsed.ModelTokenRates {
			rules.ModelTokenRates[model] = ModelTokenRate{
				Input:  rate.Input,
				Output: rate.Output,
			}
		}
	}
	if parsed.EfficiencyLambda != nil {
		rules.EfficiencyLambda = *parsed.EfficiencyLambda
	}
	if parsed.TerminateOnAllSolved != nil {
		rules.TerminateOnAllSolved = *parsed.TerminateOnAllSolved
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// LoadRules reads and parses a rule file from disk.
func LoadRules(path string) (Rules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(content)
}

// hint level keys are written level_1, level_2, ... in rule files
func parseHintLevel(key string) (int, error) {
	numPart, found := strings.CutPrefix(key, "level_")
	if !found {
		return 0, fmt.Errorf("hint token key %q does not match level_N", key)
	}
	level, err := strconv.Atoi(numPart)
	if err != nil {
		return 0, fmt.Errorf("hint token key %q does not match level_N", key)
	}
	return level, nil
}
