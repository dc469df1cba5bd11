package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

// getRankings is readable with any valid token: the leaderboard is the
// public face of a competition.
func (httpserver *HttpServer) getRankings(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if agentClaims(w, r) == nil {
		return
	}

	entries, err := httpserver.contestSrvc.Rankings(r.Context(), chi.URLParam(r, "competitionId"))
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, entries)
}
