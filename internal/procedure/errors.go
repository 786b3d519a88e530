package procedure

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a procedure failure with an HTTP status. Handlers return it
// when the failure is the caller's fault; anything else is reported as
// an internal error with a generic message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound builds a 404 procedure error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// BadRequest builds a 400 procedure error.
func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a 409 procedure error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// statusOf maps a handler error to its HTTP status.
func statusOf(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return http.StatusInternalServerError
}

// messageOf maps a handler error to its client-visible message.
// Internal errors are masked.
func messageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "Internal server error"
}
