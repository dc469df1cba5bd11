package langlist

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeInvalidSubmissionFormat = "invalid_submission_format"

func ErrUnsupportedLanguage(langID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmissionFormat,
		fmt.Sprintf("unsupported programming language: %s", langID),
	).SetHttpStatusCode(http.StatusBadRequest)
}
