package internal

import (
	"errors"
	"net/http"
)

// AppError is the error body used by the record and field endpoints.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// ErrorKind classifies failures of the insight pipeline.
type ErrorKind int

const (
	KindTransientExternal ErrorKind = iota
	KindConfiguration
	KindValidation
	KindRateLimit
	KindAuthentication
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindRateLimit:
		return "rate_limit"
	case KindAuthentication:
		return "authentication"
	default:
		return "transient_external"
	}
}

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the same request may succeed later without an
// operator or the caller changing anything.
func (k ErrorKind) Retryable() bool {
	return k == KindRateLimit || k == KindTransientExternal
}

// InsightError is the user-facing failure of an insight request. Details holds
// the raw cause for diagnostics and is only populated for transient failures.
type InsightError struct {
	Kind    ErrorKind
	Message string
	Details string
	Err     error
}

func (e *InsightError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InsightError) Unwrap() error { return e.Err }

// KindOf returns the taxonomy kind carried by err, or KindTransientExternal.
func KindOf(err error) ErrorKind {
	var ie *InsightError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	var ke interface{ ErrorKind() ErrorKind }
	if errors.As(err, &ke) {
		return ke.ErrorKind()
	}
	return KindTransientExternal
}
