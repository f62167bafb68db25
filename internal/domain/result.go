package domain

import "github.com/rs/zerolog"

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the status, message and ids triple reported by ledger operations.
type Result struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	IDs     []int64 `json:"ids,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Success returns a successful result.
func Success(message string, ids ...int64) Result {
	return Result{Status: StatusSuccess, Message: message, IDs: ids}
}

// Failure translates err into an error result.
//
// Ledger errors keep their message, anything else is reported with fallback and logged.
func Failure(logger *zerolog.Logger, err error, fallback string) Result {
	if KindOf(err) == KindPersistence {
		logger.Error().Err(err).Msg(fallback)
		return Result{Status: StatusError, Message: fallback}
	}

	return Result{Status: StatusError, Message: err.Error()}
}
