package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// SectionService defines the interface for section operations
type SectionService interface {
	List(ctx context.Context) ([]*models.Section, error)
	Create(ctx context.Context, req *dto.CreateSectionRequest) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
}

type sectionServiceImpl struct {
	sectionRepo repositories.SectionRepository
	publisher   websocket.Publisher
	logger      zerolog.Logger
}

// NewSectionService creates a new section service instance
func NewSectionService(sectionRepo repositories.SectionRepository, publisher websocket.Publisher, logger zerolog.Logger) SectionService {
	return &sectionServiceImpl{
		sectionRepo: sectionRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *sectionServiceImpl) List(ctx context.Context) ([]*models.Section, error) {
	return s.sectionRepo.List(ctx)
}

func (s *sectionServiceImpl) Create(ctx context.Context, req *dto.CreateSectionRequest) (*models.Section, error) {
	if err := checkRequired(field{"name", req.Name}, field{"icon", req.Icon}); err != nil {
		return nil, err
	}

	section := &models.Section{
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("error creating section: %w", err)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventSectionAdded, section))
	return section, nil
}

// Delete removes a section. Its files stay behind with a dangling reference.
func (s *sectionServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.sectionRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrSectionNotFound)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventSectionDeleted, id))
	return nil
}
