// Package serr carries the error taxonomy shared by services and the HTTP layer.
package serr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthorized
	Forbidden
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Msg is safe to show to clients, Err is for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func New(kind Kind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...)}
}

func Wrap(err error, kind Kind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Internal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind != Internal {
		return se.Msg
	}
	return "internal error"
}

func Is(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
