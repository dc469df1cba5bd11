package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) recordInferenceUsage(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	type usageRequest struct {
		Model        string `json:"model"`
		InputTokens  int    `json:"inputTokens"`
		OutputTokens int    `json:"outputTokens"`
	}

	var request usageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	receipt, err := httpserver.contestSrvc.RecordInference(r.Context(),
		chi.URLParam(r, "competitionId"), claims.ParticipantID,
		request.Model, request.InputTokens, request.OutputTokens)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, receipt)
}
