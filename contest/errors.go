package contest

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeCompetitionNotFound = "competition_not_found"

func ErrCompetitionNotFound(id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCompetitionNotFound,
		fmt.Sprintf("competition '%s' not found", id),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeCompetitionClosed = "competition_closed"

func ErrCompetitionClosed() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCompetitionClosed,
		"competition is closed",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeParticipantNotFound = "participant_not_found"

func ErrParticipantNotFound(id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeParticipantNotFound,
		fmt.Sprintf("participant '%s' not found", id),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeDuplicateParticipant = "duplicate_participant"

func ErrDuplicateParticipant(name string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDuplicateParticipant,
		fmt.Sprintf("participant named '%s' already registered in this competition", name),
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeParticipantTerminated = "participant_terminated"

func ErrParticipantTerminated(reason TerminationReason) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeParticipantTerminated,
		fmt.Sprintf("participant is terminated (%s)", reason),
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeUnknownProblem = "unknown_problem"

func ErrUnknownProblem(problemID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownProblem,
		fmt.Sprintf("problem '%s' is not part of this competition", problemID),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidSubmission = "invalid_submission_format"

func ErrInvalidSubmission(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmission,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidRules = "invalid_rules"

func ErrInvalidRules(err error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidRules,
		fmt.Sprintf("invalid competition rules: %v", err),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidRegistration = "invalid_registration"

func ErrInvalidRegistration(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidRegistration,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidHintLevel = "invalid_hint_level"

func ErrInvalidHintLevel(level int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidHintLevel,
		fmt.Sprintf("hint level %d is not configured for this competition", level),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeHintUnavailable = "hint_unavailable"

func ErrHintUnavailable(problemID string, level int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeHintUnavailable,
		fmt.Sprintf("no level %d hint available for problem '%s'", level, problemID),
	).SetHttpStatusCode(http.StatusBadGateway)
}

const ErrCodeSubmissionNotFound = "submission_not_found"

func ErrSubmissionNotFound(id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionNotFound,
		fmt.Sprintf("submission '%s' not found", id),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeStateNotPersisted = "state_not_persisted"

// ErrStateNotPersisted marks a durability gap: the in-memory state
// committed but the record store write failed. Operators reconcile
// from this signal; it is never attributed to the participant.
func ErrStateNotPersisted() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeStateNotPersisted,
		"state change applied but not persisted",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
