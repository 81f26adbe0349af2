// Package dErrors provides coded domain errors. Services return these so
// transports can translate them into protocol responses without string
// matching, and so policy rejections stay distinguishable from
// infrastructure faults.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation"
	CodeBadRequest         Code = "bad_request"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal"
	CodeInvariantViolation Code = "invariant_violation"

	// Mandate chain rejections. These are policy outcomes, never retried
	// automatically, and always audited before being surfaced.
	CodeInvalidSignature Code = "invalid_signature"
	CodeIntentMismatch   Code = "intent_mismatch"
	CodeApprovalDenied   Code = "approval_denied"
	CodeApprovalTimeout  Code = "approval_timeout"
	CodeInvalidState     Code = "invalid_state"

	// Key registry constraint violations.
	CodeDuplicateKey         Code = "duplicate_key"
	CodeDuplicateActiveKey   Code = "duplicate_active_key"
	CodeWeakKey              Code = "weak_key"
	CodeUnsupportedAlgorithm Code = "unsupported_algorithm"

	// External gateway outcomes. Retryable by the caller with a fresh
	// payment attempt, never by reusing the failed mandate.
	CodeGateway        Code = "gateway_error"
	CodeGatewayTimeout Code = "gateway_timeout"

	// Concurrent transitions on the same chain key lost the lock race.
	CodeConcurrentModification Code = "concurrent_modification"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		if err == nil {
			return false
		}
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code in err's chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeBadRequest, CodeWeakKey, CodeUnsupportedAlgorithm:
		return http.StatusBadRequest
	case CodeConflict, CodeDuplicateKey, CodeDuplicateActiveKey, CodeInvalidState, CodeConcurrentModification:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidSignature:
		return http.StatusUnauthorized
	case CodeForbidden, CodeApprovalDenied:
		return http.StatusForbidden
	case CodeIntentMismatch:
		return http.StatusUnprocessableEntity
	case CodeTimeout, CodeApprovalTimeout, CodeGatewayTimeout:
		return http.StatusGatewayTimeout
	case CodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
