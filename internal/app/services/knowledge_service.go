package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// KnowledgeService defines the interface for knowledge base operations
type KnowledgeService interface {
	List(ctx context.Context) ([]*models.KnowledgeEntry, error)
	Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*models.KnowledgeEntry, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]*models.KnowledgeEntry, error)
}

type knowledgeServiceImpl struct {
	knowledgeRepo repositories.KnowledgeRepository
	publisher     websocket.Publisher
	logger        zerolog.Logger
}

// NewKnowledgeService creates a new knowledge base service instance
func NewKnowledgeService(knowledgeRepo repositories.KnowledgeRepository, publisher websocket.Publisher, logger zerolog.Logger) KnowledgeService {
	return &knowledgeServiceImpl{
		knowledgeRepo: knowledgeRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *knowledgeServiceImpl) List(ctx context.Context) ([]*models.KnowledgeEntry, error) {
	return s.knowledgeRepo.List(ctx)
}

func (s *knowledgeServiceImpl) Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*models.KnowledgeEntry, error) {
	if err := checkRequired(field{"question", req.Question}, field{"answer", req.Answer}); err != nil {
		return nil, err
	}

	entry := &models.KnowledgeEntry{Question: req.Question, Answer: req.Answer}
	if err := s.knowledgeRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("error creating knowledge entry: %w", err)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventKnowledgeAdded, entry))
	return entry, nil
}

func (s *knowledgeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.knowledgeRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrKnowledgeNotFound)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventKnowledgeDeleted, id))
	return nil
}

// Search returns the entries whose question or answer contains query,
// ignoring case, in store order. The whole knowledge base is scanned.
func (s *knowledgeServiceImpl) Search(ctx context.Context, query string) ([]*models.KnowledgeEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewMissingFieldsError("query")
	}

	entries, err := s.knowledgeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*models.KnowledgeEntry{}
	for _, entry := range entries {
		if entry.Matches(query) {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}
