// Package calcerr classifies service failures so the HTTP layer can pick a
// status code without inspecting message text.
package calcerr

import (
	"errors"
	"net/http"
)

// Kind is the failure class of an Error.
type Kind int

const (
	// Internal is anything unexpected. It maps to 500.
	Internal Kind = iota
	// Validation covers missing or malformed request fields.
	Validation
	// Parse covers expression and symbol syntax errors.
	Parse
	// Computation covers engine failures on well-formed input.
	Computation
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Parse:
		return "parse"
	case Computation:
		return "computation"
	}
	return "internal"
}

// Error carries a client-facing message and the cause behind it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an Error that reports msg and unwraps to err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Internal
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Parse, Computation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
