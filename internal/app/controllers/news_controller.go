package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
)

// NewsController handles news endpoints
type NewsController struct {
	newsService services.NewsService
}

// NewNewsController creates a new NewsController
func NewNewsController(newsService services.NewsService) *NewsController {
	return &NewsController{
		newsService: newsService,
	}
}

// ListNews lists news posts, newest first
// @Summary List news
// @Tags news
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.News
// @Router /admin/news [get]
// @Router /student/news [get]
func (c *NewsController) ListNews(ctx *gin.Context) {
	posts, err := c.newsService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, posts)
}

// CreateNews publishes a news post
// @Summary Publish news
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNewsRequest true "News post"
// @Success 201 {object} models.News
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/news [post]
func (c *NewsController) CreateNews(ctx *gin.Context) {
	var req dto.CreateNewsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	news, err := c.newsService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, news)
}

// DeleteNews deletes a news post
// @Summary Delete news
// @Tags news
// @Produce json
// @Security BearerAuth
// @Param id path int true "News ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "News not found"
// @Router /admin/news/{id} [delete]
func (c *NewsController) DeleteNews(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.newsService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "News deleted")
}
