package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

func (httpserver *HttpServer) closeCompetition(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	if organizerClaims(w, r) == nil {
		return
	}

	competitionID := chi.URLParam(r, "competitionId")

	comp, err := httpserver.contestSrvc.CloseCompetition(r.Context(), competitionID)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, comp)
}
