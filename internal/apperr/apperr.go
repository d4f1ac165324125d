// Package apperr carries the error taxonomy shared by services, stores
// and handlers: every domain failure is classified with a Kind so that
// the HTTP layer can map it to a status code without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindInvalidCredentials
	KindInvalidIndex
	KindTransient
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: "validation_error", Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Code: "conflict", Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Code: "insufficient_stock", Message: fmt.Sprintf(format, args...)}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Code: "invalid_credentials", Message: "invalid email or password"}
}

func InvalidIndex(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidIndex, Code: "invalid_index", Message: fmt.Sprintf(format, args...)}
}

// Transient wraps a persistence-layer failure. Nothing was committed, so
// the caller may retry the whole operation from scratch.
func Transient(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindTransient, Code: "transient_error", Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the Kind of err, or KindTransient when err carries no
// classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// CodeOf returns the machine-readable error code for err.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInsufficientStock, KindInvalidIndex:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
