package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) getProblem(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if agentClaims(w, r) == nil {
		return
	}

	detail, err := httpserver.contestSrvc.GetProblem(r.Context(),
		chi.URLParam(r, "competitionId"), chi.URLParam(r, "problemId"))
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, detail)
}
