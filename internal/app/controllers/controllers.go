package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter, writing a 400 response
// when it is malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid "+name).WithFields(name))
		return 0, false
	}
	return id, true
}

// deleted writes the confirmation body of a successful delete
func deleted(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: message})
}
