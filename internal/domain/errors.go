package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeMissingField    ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange      ErrorCode = "OUT_OF_RANGE"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Extraction pipeline errors
	CodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	CodeParseFailure    ErrorCode = "PARSE_FAILURE"
	CodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"
	CodeRetryExhausted  ErrorCode = "RETRY_EXHAUSTED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err is (or wraps) a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// Helper constructors for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("session not found: %s", sessionID), nil)
}

// NewUpstreamFailureError signals that the text-generation capability
// itself failed. The extraction pipeline never retries it.
func NewUpstreamFailureError(message string, cause error) *DomainError {
	return NewError(CodeUpstreamFailure, message, cause)
}

// NewParseFailureError signals that no extraction strategy produced
// parseable JSON. It carries the last underlying parse error.
func NewParseFailureError(cause error) *DomainError {
	return NewError(CodeParseFailure, "could not parse JSON from model output", cause)
}

func NewSchemaViolationError(message string) *DomainError {
	return NewError(CodeSchemaViolation, message, nil)
}

// NewRetryExhaustedError wraps the final failure after all generation
// attempts have been used up.
func NewRetryExhaustedError(cause error) *DomainError {
	return NewError(CodeRetryExhausted, "quiz generation attempts exhausted", cause)
}

// ValidationError represents a single request-validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation failures
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: "has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
		Value:   value,
	}
}
