package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeValidationFailed   ErrorCode = "VAL_001"
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrorCodeResourceNotFound   ErrorCode = "RES_001"
	ErrorCodeInternalServer     ErrorCode = "SRV_001"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Message string    `json:"message" example:"Name and icon are required"`
	Code    ErrorCode `json:"code" example:"VAL_001"`
	// Fields names the missing or invalid request fields
	Fields []string `json:"fields,omitempty"`
	// Error carries diagnostic detail for server errors
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithFields adds field names to the error response
func (e *ErrorResponse) WithFields(fields ...string) *ErrorResponse {
	e.Fields = fields
	return e
}

// WithError attaches diagnostic detail
func (e *ErrorResponse) WithError(detail string) *ErrorResponse {
	e.Error = detail
	return e
}
