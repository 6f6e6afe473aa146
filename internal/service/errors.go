package service

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed operation
type ErrorKind int

const (
	// KindInvalid is bad client input caught before persistence
	KindInvalid ErrorKind = iota + 1
	// KindNotFound is an unknown material or supplier
	KindNotFound
	// KindValidation is a constraint rejected by the persistence layer
	KindValidation
	// KindInternal is any unexpected fault
	KindInternal
)

// Status maps the kind to an HTTP status code
func (k ErrorKind) Status() int {
	switch k {
	case KindInvalid, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is the failure returned by every service operation. Message is
// user-facing; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

const internalErrorMessage = "An unexpected server error occurred"

func invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func notFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

func validationFailed(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: internalErrorMessage, Err: err}
}
