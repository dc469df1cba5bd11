package store

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeRecordNotFound = "record_not_found"

func ErrRecordNotFound(recType RecType, id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeRecordNotFound,
		fmt.Sprintf("%s record '%s' not found", recType, id),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeStaleRecordVersion = "stale_record_version"

func ErrStaleRecordVersion(recType RecType, id string, version int64) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeStaleRecordVersion,
		fmt.Sprintf("%s record '%s' already has a version newer than %d", recType, id, version),
	).SetHttpStatusCode(http.StatusConflict)
}
