package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// ExposeErrorDetails controls whether 500 responses echo the raw failure
// message in the "error" field.
var ExposeErrorDetails = true

// HandleAPIError converts a service error into the JSON error response
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidationFailed, apperrors.MessageOf(err, "Validation failed"))
		if fields := apperrors.FieldsOf(err); len(fields) > 0 {
			resp = resp.WithFields(fields...)
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Token has expired"))
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, apperrors.MessageOf(err, "Authentication required")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, apperrors.MessageOf(err, "Access denied")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Resource not found")))
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error in request")
		resp := dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Server error")
		if ExposeErrorDetails {
			resp = resp.WithError(err.Error())
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
