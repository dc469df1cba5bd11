package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) getSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	subm, err := httpserver.contestSrvc.GetSubmission(r.Context(),
		chi.URLParam(r, "competitionId"), chi.URLParam(r, "submissionId"))
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	// agents may only read their own submissions
	if claims.ParticipantID != "" && claims.ParticipantID != subm.ParticipantID {
		httpjson.WriteErrorJson(w, "submission belongs to another participant",
			http.StatusForbidden, "forbidden")
		return
	}

	httpjson.WriteSuccessJson(w, subm)
}
