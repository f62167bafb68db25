// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error.
//
// The original error is logged where it happens and never shown to the caller.
var ErrInternal = errors.New("internal")
