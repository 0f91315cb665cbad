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

// PostgresSectionRepository handles section database operations
type PostgresSectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new PostgresSectionRepository
func NewSectionRepository(db *pgxpool.Pool) *PostgresSectionRepository {
	return &PostgresSectionRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a section
func (r *PostgresSectionRepository) Create(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Insert("sections").
		Columns("name", "icon", "description").
		Values(section.Name, section.Icon, section.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create section SQL")
		return fmt.Errorf("failed to build create section query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&section.ID, &section.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create section query")
		return fmt.Errorf("error creating section: %w", err)
	}
	return nil
}

// GetByID retrieves a section by ID
func (r *PostgresSectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	sql, args, err := r.sb.Select("id", "name", "icon", "description", "created_at").
		From("sections").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get section by ID SQL")
		return nil, fmt.Errorf("failed to build get section query: %w", err)
	}

	section := &models.Section{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&section.ID, &section.Name, &section.Icon, &section.Description, &section.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("sectionID", id).Msg("Error scanning section row")
		return nil, fmt.Errorf("error getting section by ID: %w", err)
	}
	return section, nil
}

// List retrieves all sections
func (r *PostgresSectionRepository) List(ctx context.Context) ([]*models.Section, error) {
	sql, args, err := r.sb.Select("id", "name", "icon", "description", "created_at").
		From("sections").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list sections SQL")
		return nil, fmt.Errorf("failed to build list sections query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list sections query")
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	sections := []*models.Section{}
	for rows.Next() {
		section := &models.Section{}
		if err := rows.Scan(&section.ID, &section.Name, &section.Icon, &section.Description, &section.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning section row during list")
			return nil, fmt.Errorf("error scanning section row: %w", err)
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating section rows")
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}
	return sections, nil
}

// Delete deletes a section by ID. Files referencing it are left in place.
func (r *PostgresSectionRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "sections", id)
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched
func deleteByID(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string, id int64) error {
	sql, args, err := sb.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building delete SQL")
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	cmdTag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing delete query")
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
