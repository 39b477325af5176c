package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CustomError carries an HTTP status out of middleware into the error handler
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Sentinels shared by the service and handler layers.
var (
	// ErrMissingArguments means a required request field was absent or empty.
	ErrMissingArguments = errors.New("missing arguments")

	// ErrInvalidArguments means the fields were present but do not reference valid data.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrBadRequest means the body could not be decoded.
	ErrBadRequest = errors.New("malformed request")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity indicates a unique or foreign key constraint violation.
	ErrIntegrity = errors.New("integrity conflict")

	// ErrFetchFailed indicates the supplier price list could not be fetched or decoded.
	ErrFetchFailed = errors.New("price list fetch failed")

	// ErrAuthFailed indicates wrong credentials or an inactive account.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrInvalidToken indicates an unknown or expired token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden indicates the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports per-field problems
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field has a problem
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// PasswordError lists the password policy rules a candidate password breaks
type PasswordError struct {
	Messages []string
}

func (e *PasswordError) Error() string {
	return "weak password: " + strings.Join(e.Messages, " ")
}
