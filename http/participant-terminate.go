package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/programme-lv/arena/auth"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/httpjson"
)

// terminateParticipant retires a competitor. Agents retire themselves;
// organizers name any participant and may supply a reason.
func (httpserver *HttpServer) terminateParticipant(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())
	claims := agentClaims(w, r)
	if claims == nil {
		return
	}

	type terminateRequest struct {
		ParticipantID string `json:"participantId,omitempty"`
		Reason        string `json:"reason,omitempty"`
	}

	var request terminateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	participantID := claims.ParticipantID
	reason := contest.TerminationReason("")
	if claims.HasScope(auth.ScopeOrganizer) {
		participantID = request.ParticipantID
		reason = contest.TerminationReason(request.Reason)
	}

	finalReason, err := httpserver.contestSrvc.TerminateParticipant(r.Context(),
		chi.URLParam(r, "competitionId"), participantID, reason)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	type terminateResponse struct {
		ParticipantID     string `json:"participantId"`
		TerminationReason string `json:"terminationReason"`
	}

	httpjson.WriteSuccessJson(w, terminateResponse{
		ParticipantID:     participantID,
		TerminationReason: string(finalReason),
	})
}
