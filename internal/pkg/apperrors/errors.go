package apperrors

import (
	"errors"
	"strings"
)

// Error taxonomy. Every error leaving a service is either one of these
// (possibly wrapped) or an unexpected failure that surfaces as a server error.
var (
	// ValidationError, HTTP 400
	ErrValidationFailed = errors.New("validation failed")

	// Unauthorized, HTTP 401
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Forbidden, HTTP 403
	ErrPermissionDenied = errors.New("permission denied")

	// NotFound, HTTP 404
	ErrResourceNotFound = errors.New("resource not found")
)

// Resource specific not-found errors, all matching ErrResourceNotFound
var (
	ErrUserNotFound      = NewResourceNotFoundError("User not found")
	ErrStudentNotFound   = NewResourceNotFoundError("Student not found")
	ErrSectionNotFound   = NewResourceNotFoundError("Section not found")
	ErrFileNotFound      = NewResourceNotFoundError("File not found")
	ErrNewsNotFound      = NewResourceNotFoundError("News not found")
	ErrKnowledgeNotFound = NewResourceNotFoundError("Knowledge base entry not found")
)

// ErrUniversityIDExists is returned when a user with the same university ID exists
var ErrUniversityIDExists = NewValidationError("University ID already exists")

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	// Fields lists the offending request fields for validation errors
	Fields []string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewResourceNotFoundError creates a not-found error with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewForbiddenError creates a permission denied error with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewUnauthorizedError creates an unauthorized error with a message
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewMissingFieldsError creates a validation error naming the missing fields.
func NewMissingFieldsError(fields ...string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// MessageOf returns the user-facing message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// FieldsOf returns the offending fields carried by a validation error.
func FieldsOf(err error) []string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}
