package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/httpjson"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/scoring"
)

// rulesRequest is the wire form of a rule set. Every field is
// optional; absent fields keep their default value.
type rulesRequest struct {
	TierScores           map[string]int                `json:"tierScores,omitempty"`
	FirstAcBonus         *int                          `json:"firstAcBonus,omitempty"`
	Penalties            map[string]int                `json:"penalties,omitempty"`
	SubmissionTokens     *int                          `json:"submissionTokens,omitempty"`
	PerTestTokens        *int                          `json:"perTestTokens,omitempty"`
	LanguageMultipliers  map[string]float64            `json:"languageMultipliers,omitempty"`
	HintTokens           map[int]int                   `json:"hintTokens,omitempty"`
	ModelTokenRates      map[string]map[string]float64 `json:"modelTokenRates,omitempty"`
	EfficiencyLambda     *int                          `json:"efficiencyLambda,omitempty"`
	TerminateOnAllSolved *bool                         `json:"terminateOnAllSolved,omitempty"`
}

func (req *rulesRequest) toRules() scoring.Rules {
	rules := scoring.DefaultRules()
	if req.TierScores != nil {
		rules.TierScores = make(map[scoring.Tier]int, len(req.TierScores))
		for tier, score := range req.TierScores {
			rules.TierScores[scoring.Tier(tier)] = score
		}
	}
	if req.FirstAcBonus != nil {
		rules.FirstAcBonus = *req.FirstAcBonus
	}
	if req.Penalties != nil {
		rules.Penalties = make(map[judge.VerdictKind]int, len(req.Penalties))
		for kind, penalty := range req.Penalties {
			rules.Penalties[judge.VerdictKind(kind)] = penalty
		}
	}
	if req.SubmissionTokens != nil {
		rules.SubmissionTokens = *req.SubmissionTokens
	}
	if req.PerTestTokens != nil {
		rules.PerTestTokens = *req.PerTestTokens
	}
	if req.LanguageMultipliers != nil {
		rules.LanguageMultipliers = req.LanguageMultipliers
	}
	if req.HintTokens != nil {
		rules.HintTokens = req.HintTokens
	}
	if req.ModelTokenRates != nil {
		rules.ModelTokenRates = make(map[string]scoring.ModelTokenRate, len(req.ModelTokenRates))
		for model, rate := range req.ModelTokenRates {
			rules.ModelTokenRates[model] = scoring.ModelTokenRate{
				Input:  rate["input"],
				Output: rate["output"],
			}
		}
	}
	if req.EfficiencyLambda != nil {
		rules.EfficiencyLambda = *req.EfficiencyLambda
	}
	if req.TerminateOnAllSolved != nil {
		rules.TerminateOnAllSolved = *req.TerminateOnAllSolved
	}
	return rules
}

func (httpserver *HttpServer) createCompetition(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if organizerClaims(w, r) == nil {
		return
	}

	type createCompetitionRequest struct {
		Title              string        `json:"title"`
		Description        string        `json:"description"`
		ProblemIDs         []string      `json:"problemIds"`
		Rules              *rulesRequest `json:"rules,omitempty"`
		DefaultTokenBudget int           `json:"defaultTokenBudget"`
	}

	var request createCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	params := contest.CreateCompetitionParams{
		Title:              request.Title,
		Description:        request.Description,
		ProblemIDs:         request.ProblemIDs,
		DefaultTokenBudget: request.DefaultTokenBudget,
	}
	if request.Rules != nil {
		rules := request.Rules.toRules()
		params.Rules = &rules
	}

	comp, err := httpserver.contestSrvc.CreateCompetition(r.Context(), params)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, comp)
}
