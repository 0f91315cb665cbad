package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
)

// SessionCounter reports connected broadcast sessions
type SessionCounter interface {
	SessionCount() int
}

// HealthController reports liveness
type HealthController struct {
	sessions SessionCounter
}

// NewHealthController creates a new HealthController
func NewHealthController(sessions SessionCounter) *HealthController {
	return &HealthController{sessions: sessions}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Sessions: c.sessions.SessionCount(),
	})
}
