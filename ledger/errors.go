package ledger

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/arena/srvcerror"
)

const ErrCodeInsufficientTokens = "insufficient_tokens"

func ErrInsufficientTokens(needed int, remaining int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInsufficientTokens,
		fmt.Sprintf("insufficient tokens: need %d, have %d", needed, remaining),
	).SetHttpStatusCode(http.StatusPaymentRequired)
}

const ErrCodeAccountExists = "ledger_account_exists"

func ErrAccountExists() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAccountExists,
		"ledger account already exists",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeAccountNotFound = "ledger_account_not_found"

func ErrAccountNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAccountNotFound,
		"ledger account not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeNegativeAmount = "ledger_negative_amount"

func ErrNegativeAmount() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNegativeAmount,
		"token amounts cannot be negative",
	).SetHttpStatusCode(http.StatusBadRequest)
}
