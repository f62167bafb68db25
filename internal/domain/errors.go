package domain

import (
	"errors"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Kind classifies ledger errors.
type Kind int

// Error kinds.
const (
	KindPersistence Kind = iota
	KindValidation
	KindNotFound
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConstraint:
		return "constraint"
	}

	return "persistence"
}

// Error is a ledger error with a message that is safe to show to the caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the kind of err.
//
// Anything that is not a ledger error, errorspkg.ErrInternal included, is a persistence error.
func KindOf(err error) Kind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}

	return KindPersistence
}

// IsInternal reports whether err is an unexpected storage failure.
func IsInternal(err error) bool {
	return err != nil && (KindOf(err) == KindPersistence || errors.Is(err, errorspkg.ErrInternal))
}
