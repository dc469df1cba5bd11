package judge

import (
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeJudgeUnavailable = "judge_unavailable"

func ErrJudgeUnavailable() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeJudgeUnavailable,
		"judge did not respond",
	).SetHttpStatusCode(http.StatusBadGateway)
}

const ErrCodeJudgeRejected = "judge_rejected_request"

func ErrJudgeRejected() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeJudgeRejected,
		"judge rejected the evaluation request",
	).SetHttpStatusCode(http.StatusBadGateway)
}
