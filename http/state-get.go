package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/httpjson"
)

// getState serves the per-turn observation an agent acts on. The
// participant comes from the token, not the URL, so an agent can never
// read another competitor's private state.
func (httpserver *HttpServer) getState(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	competitionID := chi.URLParam(r, "competitionId")
	participantID := claims.ParticipantID
	if participantID == "" {
		// organizers must name the participant they want to observe
		participantID = r.URL.Query().Get("participantId")
	}

	view, err := httpserver.contestSrvc.GetStateView(r.Context(), competitionID, participantID)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, view)
}
