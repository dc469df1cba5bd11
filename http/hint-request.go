package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) requestHint(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	type hintRequest struct {
		ProblemID string `json:"problemId"`
		Level     int    `json:"level"`
	}

	var request hintRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	hint, err := httpserver.contestSrvc.RequestHint(r.Context(),
		chi.URLParam(r, "competitionId"), claims.ParticipantID,
		request.ProblemID, request.Level)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, hint)
}
