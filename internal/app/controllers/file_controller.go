package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// FileController handles uploaded file endpoints
type FileController struct {
	fileService services.FileService
}

// NewFileController creates a new FileController
func NewFileController(fileService services.FileService) *FileController {
	return &FileController{
		fileService: fileService,
	}
}

// ListFiles lists every file record with its section
// @Summary List files
// @Tags files
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.File
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/files [get]
func (c *FileController) ListFiles(ctx *gin.Context) {
	files, err := c.fileService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, files)
}

// ListSectionFiles lists the files of one section
// @Summary List files of a section
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {array} models.File
// @Failure 400 {object} dto.ErrorResponse "Invalid sectionId"
// @Router /student/files/{sectionId} [get]
func (c *FileController) ListSectionFiles(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	files, err := c.fileService.ListBySection(ctx, sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, files)
}

// UploadFile uploads a file into a section
// @Summary Upload a file
// @Description Stores the uploaded blob, records it and broadcasts file-uploaded
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param fileName formData string true "Display name"
// @Param section formData int true "Section ID"
// @Param file formData file true "File contents"
// @Success 201 {object} models.File
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /admin/files [post]
func (c *FileController) UploadFile(ctx *gin.Context) {
	var req dto.UploadFileRequest
	bindErr := ctx.ShouldBindWith(&req, binding.FormMultipart)

	var fileHeader *multipart.FileHeader
	if fh, err := ctx.FormFile("file"); err == nil {
		fileHeader = fh
	}

	// Report the blob together with any missing form fields.
	if bindErr != nil {
		missing := dto.InvalidFields(bindErr)
		if missing == nil {
			missing = dto.RequiredFields(&req)
		}
		if fileHeader == nil {
			missing = append(missing, "file")
		}
		if len(missing) == 0 {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid upload form"))
			return
		}
		middleware.HandleAPIError(ctx, apperrors.NewMissingFieldsError(missing...))
		return
	}

	file, err := c.fileService.Upload(ctx, &req, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, file)
}

// DeleteFile deletes a file record and its blob
// @Summary Delete a file
// @Description Deletes the record, removes the blob best-effort and broadcasts file-deleted
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /admin/files/{id} [delete]
func (c *FileController) DeleteFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.fileService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "File deleted")
}
