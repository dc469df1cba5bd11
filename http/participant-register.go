package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/auth"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) registerParticipant(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if organizerClaims(w, r) == nil {
		return
	}

	competitionID := chi.URLParam(r, "competitionId")

	type registerRequest struct {
		Name        string `json:"name"`
		ApiBaseURL  string `json:"apiBaseUrl,omitempty"`
		ApiKey      string `json:"apiKey,omitempty"`
		TokenBudget int    `json:"tokenBudget,omitempty"`
	}

	var request registerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	p, err := httpserver.contestSrvc.RegisterParticipant(r.Context(), competitionID,
		contest.RegisterParticipantParams{
			Name: request.Name,
			Credentials: contest.Credentials{
				ApiBaseURL: request.ApiBaseURL,
				ApiKey:     request.ApiKey,
			},
			TokenBudget: request.TokenBudget,
		})
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	token, err := auth.GenerateAgentJWT(competitionID, p.ID, p.Name, httpserver.jwtKey)
	if err != nil {
		logger.Error("failed to generate agent JWT", "error", err)
		httpjson.WriteInternalErrorJson(w)
		return
	}

	type registerResponse struct {
		Participant contest.Participant `json:"participant"`
		Token       string              `json:"token"`
	}

	httpjson.WriteSuccessJson(w, registerResponse{Participant: p, Token: token})
}
