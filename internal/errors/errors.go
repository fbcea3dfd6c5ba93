// Package errors provides coded domain errors for the prompt library.
//
// The codes double as the short flags the web layer carries in redirect
// query strings, so a failed create ends up at "/?error=missing".
//
// Usage:
//
//	// In the store - return typed errors
//	if title == "" {
//	    return errors.Missing("title is required")
//	}
//
//	// In handlers - check with errors.As
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    redirectWithFlag(w, r, "error", domainErr.Code.Flag())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeMissing      Code = "MISSING"
	CodeInvalidImage Code = "INVALID_IMAGE"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL"
)

// Flag returns the value used for the "error" redirect query parameter.
// Not-found is reported the same way as a missing field.
func (c Code) Flag() string {
	switch c {
	case CodeMissing, CodeNotFound:
		return "missing"
	case CodeInvalidImage:
		return "image"
	default:
		return "internal"
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMissing, CodeInvalidImage:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinel errors for use with errors.Is().
var (
	ErrMissing      = &Error{Code: CodeMissing, Message: "missing required field"}
	ErrInvalidImage = &Error{Code: CodeInvalidImage, Message: "invalid image type"}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
)

// Missing creates a missing-field error.
func Missing(msg string) *Error {
	return &Error{Code: CodeMissing, Message: msg}
}

// MissingWithDetails creates a missing-field error with per-field details.
func MissingWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeMissing, Message: msg, Details: details}
}

// InvalidImagef creates an invalid image type error with formatted message.
func InvalidImagef(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidImage, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsDomain reports whether err carries a domain code.
func IsDomain(err error) bool {
	var domainErr *Error
	return errors.As(err, &domainErr)
}
