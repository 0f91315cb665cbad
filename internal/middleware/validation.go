package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// BindJSON binds and validates a JSON body into obj. On failure it writes a
// 400 response listing the missing fields and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.JSON)
}

func bindWith(c *gin.Context, obj interface{}, b binding.Binding) bool {
	err := c.ShouldBindWith(obj, b)
	if err == nil {
		return true
	}

	fields := dto.InvalidFields(err)
	if fields == nil && errors.Is(err, io.EOF) {
		// Empty body: every required field is missing.
		fields = dto.RequiredFields(obj)
	}
	if len(fields) > 0 {
		HandleAPIError(c, apperrors.NewMissingFieldsError(fields...))
		return false
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid request body"))
	return false
}
