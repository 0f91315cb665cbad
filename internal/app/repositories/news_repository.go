package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// PostgresNewsRepository handles news database operations
type PostgresNewsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNewsRepository creates a new PostgresNewsRepository
func NewNewsRepository(db *pgxpool.Pool) *PostgresNewsRepository {
	return &PostgresNewsRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a news post; the publish time is assigned by the database
func (r *PostgresNewsRepository) Create(ctx context.Context, news *models.News) error {
	sql, args, err := r.sb.Insert("news").
		Columns("title", "content").
		Values(news.Title, news.Content).
		Suffix("RETURNING id, published_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create news SQL")
		return fmt.Errorf("failed to build create news query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&news.ID, &news.PublishedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create news query")
		return fmt.Errorf("error creating news: %w", err)
	}
	return nil
}

// GetByID retrieves a news post by ID
func (r *PostgresNewsRepository) GetByID(ctx context.Context, id int64) (*models.News, error) {
	sql, args, err := r.sb.Select("id", "title", "content", "published_at").
		From("news").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get news by ID SQL")
		return nil, fmt.Errorf("failed to build get news query: %w", err)
	}

	news := &models.News{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&news.ID, &news.Title, &news.Content, &news.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("newsID", id).Msg("Error scanning news row")
		return nil, fmt.Errorf("error getting news by ID: %w", err)
	}
	return news, nil
}

// List retrieves all news posts, newest first
func (r *PostgresNewsRepository) List(ctx context.Context) ([]*models.News, error) {
	sql, args, err := r.sb.Select("id", "title", "content", "published_at").
		From("news").
		OrderBy("published_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list news SQL")
		return nil, fmt.Errorf("failed to build list news query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list news query")
		return nil, fmt.Errorf("error querying news: %w", err)
	}
	defer rows.Close()

	posts := []*models.News{}
	for rows.Next() {
		news := &models.News{}
		if err := rows.Scan(&news.ID, &news.Title, &news.Content, &news.PublishedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning news row during list")
			return nil, fmt.Errorf("error scanning news row: %w", err)
		}
		posts = append(posts, news)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating news rows")
		return nil, fmt.Errorf("error iterating news rows: %w", err)
	}
	return posts, nil
}

// Delete deletes a news post by ID
func (r *PostgresNewsRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "news", id)
}
