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

// PostgresKnowledgeRepository handles knowledge base database operations
type PostgresKnowledgeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewKnowledgeRepository creates a new PostgresKnowledgeRepository
func NewKnowledgeRepository(db *pgxpool.Pool) *PostgresKnowledgeRepository {
	return &PostgresKnowledgeRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a knowledge base entry
func (r *PostgresKnowledgeRepository) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	sql, args, err := r.sb.Insert("knowledge_entries").
		Columns("question", "answer").
		Values(entry.Question, entry.Answer).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create knowledge entry SQL")
		return fmt.Errorf("failed to build create knowledge entry query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create knowledge entry query")
		return fmt.Errorf("error creating knowledge entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by ID
func (r *PostgresKnowledgeRepository) GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error) {
	sql, args, err := r.sb.Select("id", "question", "answer", "created_at").
		From("knowledge_entries").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get knowledge entry SQL")
		return nil, fmt.Errorf("failed to build get knowledge entry query: %w", err)
	}

	entry := &models.KnowledgeEntry{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("entryID", id).Msg("Error scanning knowledge entry row")
		return nil, fmt.Errorf("error getting knowledge entry by ID: %w", err)
	}
	return entry, nil
}

// List retrieves all entries
func (r *PostgresKnowledgeRepository) List(ctx context.Context) ([]*models.KnowledgeEntry, error) {
	sql, args, err := r.sb.Select("id", "question", "answer", "created_at").
		From("knowledge_entries").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list knowledge entries SQL")
		return nil, fmt.Errorf("failed to build list knowledge entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list knowledge entries query")
		return nil, fmt.Errorf("error querying knowledge entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.KnowledgeEntry{}
	for rows.Next() {
		entry := &models.KnowledgeEntry{}
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning knowledge entry row during list")
			return nil, fmt.Errorf("error scanning knowledge entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating knowledge entry rows")
		return nil, fmt.Errorf("error iterating knowledge entry rows: %w", err)
	}
	return entries, nil
}

// Delete deletes an entry by ID
func (r *PostgresKnowledgeRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "knowledge_entries", id)
}
