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

// NewsService defines the interface for news operations
type NewsService interface {
	List(ctx context.Context) ([]*models.News, error)
	Create(ctx context.Context, req *dto.CreateNewsRequest) (*models.News, error)
	Delete(ctx context.Context, id int64) error
}

type newsServiceImpl struct {
	newsRepo  repositories.NewsRepository
	publisher websocket.Publisher
	logger    zerolog.Logger
}

// NewNewsService creates a new news service instance
func NewNewsService(newsRepo repositories.NewsRepository, publisher websocket.Publisher, logger zerolog.Logger) NewsService {
	return &newsServiceImpl{
		newsRepo:  newsRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns all posts, newest first
func (s *newsServiceImpl) List(ctx context.Context) ([]*models.News, error) {
	return s.newsRepo.List(ctx)
}

func (s *newsServiceImpl) Create(ctx context.Context, req *dto.CreateNewsRequest) (*models.News, error) {
	if err := checkRequired(field{"title", req.Title}, field{"content", req.Content}); err != nil {
		return nil, err
	}

	news := &models.News{Title: req.Title, Content: req.Content}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("error creating news: %w", err)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventNewsPublished, news))
	return news, nil
}

func (s *newsServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrNewsNotFound)
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventNewsDeleted, id))
	return nil
}
