package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	type createSubmissionRequest struct {
		ProblemID string `json:"problemId"`
		Code      string `json:"code"`
		Language  string `json:"language"`
	}

	var request createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	subm, err := httpserver.contestSrvc.Submit(r.Context(),
		chi.URLParam(r, "competitionId"), claims.ParticipantID,
		request.ProblemID, request.Code, request.Language)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(httpjson.JsonResponse{Status: "success", Data: subm})
}
