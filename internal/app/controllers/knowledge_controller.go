package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// KnowledgeController handles knowledge base endpoints
type KnowledgeController struct {
	knowledgeService services.KnowledgeService
}

// NewKnowledgeController creates a new KnowledgeController
func NewKnowledgeController(knowledgeService services.KnowledgeService) *KnowledgeController {
	return &KnowledgeController{
		knowledgeService: knowledgeService,
	}
}

// ListEntries lists the knowledge base
// @Summary List knowledge base entries
// @Tags knowledge-base
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.KnowledgeEntry
// @Router /admin/knowledge-base [get]
func (c *KnowledgeController) ListEntries(ctx *gin.Context) {
	entries, err := c.knowledgeService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// CreateEntry adds a question and answer
// @Summary Add a knowledge base entry
// @Tags knowledge-base
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateKnowledgeRequest true "Entry"
// @Success 201 {object} models.KnowledgeEntry
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Router /admin/knowledge-base [post]
func (c *KnowledgeController) CreateEntry(ctx *gin.Context) {
	var req dto.CreateKnowledgeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.knowledgeService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// DeleteEntry deletes an entry
// @Summary Delete a knowledge base entry
// @Tags knowledge-base
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Knowledge base entry not found"
// @Router /admin/knowledge-base/{id} [delete]
func (c *KnowledgeController) DeleteEntry(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.knowledgeService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Knowledge base entry deleted")
}

// Search searches questions and answers
// @Summary Search the knowledge base
// @Description Case-insensitive substring match over questions and answers
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SearchRequest true "Query"
// @Success 200 {array} models.KnowledgeEntry
// @Failure 400 {object} dto.ErrorResponse "Query is required"
// @Router /student/assistant/search [post]
func (c *KnowledgeController) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entries, err := c.knowledgeService.Search(ctx, req.Query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
