package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/filestorage"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// fileSubPath is the storage directory uploads are written to
const fileSubPath = "files"

// FileService defines the interface for uploaded file operations
type FileService interface {
	List(ctx context.Context) ([]*models.File, error)
	ListBySection(ctx context.Context, sectionID int64) ([]*models.File, error)
	Upload(ctx context.Context, req *dto.UploadFileRequest, fileHeader *multipart.FileHeader) (*models.File, error)
	Delete(ctx context.Context, id int64) error
}

type fileServiceImpl struct {
	fileRepo    repositories.FileRepository
	sectionRepo repositories.SectionRepository
	storage     filestorage.FileStorage
	publisher   websocket.Publisher
	logger      zerolog.Logger
}

// NewFileService creates a new file service instance
func NewFileService(
	fileRepo repositories.FileRepository,
	sectionRepo repositories.SectionRepository,
	storage filestorage.FileStorage,
	publisher websocket.Publisher,
	logger zerolog.Logger,
) FileService {
	return &fileServiceImpl{
		fileRepo:    fileRepo,
		sectionRepo: sectionRepo,
		storage:     storage,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *fileServiceImpl) List(ctx context.Context) ([]*models.File, error) {
	return s.fileRepo.List(ctx)
}

func (s *fileServiceImpl) ListBySection(ctx context.Context, sectionID int64) ([]*models.File, error) {
	return s.fileRepo.ListBySection(ctx, sectionID)
}

// Upload stores the blob and records it. The owning section must exist; it
// is checked before anything is written. The check and the insert are not
// atomic with a concurrent section delete.
func (s *fileServiceImpl) Upload(ctx context.Context, req *dto.UploadFileRequest, fileHeader *multipart.FileHeader) (*models.File, error) {
	fields := []field{{"fileName", req.FileName}, {"section", req.Section}}
	if fileHeader == nil {
		fields = append(fields, field{"file", ""})
	}
	if err := checkRequired(fields...); err != nil {
		return nil, err
	}

	sectionID, err := strconv.ParseInt(strings.TrimSpace(req.Section), 10, 64)
	if err != nil || sectionID <= 0 {
		return nil, apperrors.NewValidationError("Invalid section id")
	}

	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSectionNotFound)
	}

	stored, err := s.storage.Save(ctx, fileHeader, fileSubPath)
	if err != nil {
		return nil, fmt.Errorf("error storing upload: %w", err)
	}

	file := &models.File{
		FileName:         req.FileName,
		SectionID:        section.ID,
		FilePath:         stored.Path,
		FileURL:          stored.URL,
		OriginalFileName: stored.OriginalName,
		FileSize:         stored.Size,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, stored.Path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", stored.Path).Msg("Failed to remove blob of failed upload")
		}
		return nil, fmt.Errorf("error creating file record: %w", err)
	}
	file.Section = section

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventFileUploaded, file))
	return file, nil
}

// Delete removes the record, then the blob. A blob that cannot be removed is
// logged and left behind; the delete still succeeds.
func (s *fileServiceImpl) Delete(ctx context.Context, id int64) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrFileNotFound)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrFileNotFound)
	}

	if err := s.storage.Delete(ctx, file.FilePath); err != nil {
		s.logger.Warn().
			Err(err).
			Int64("fileID", id).
			Str("path", file.FilePath).
			Msg("Failed to remove blob of deleted file")
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventFileDeleted, id))
	return nil
}
