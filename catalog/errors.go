package catalog

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeProblemNotFound = "problem_not_found"

func ErrProblemNotFound(id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		fmt.Sprintf("problem '%s' not found", id),
	).SetHttpStatusCode(http.StatusNotFound)
}
