package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/dberrors"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// PostgresFileRepository handles file record database operations
type PostgresFileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new PostgresFileRepository
func NewFileRepository(db *pgxpool.Pool) *PostgresFileRepository {
	return &PostgresFileRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// selectFiles joins the owning section; there is no foreign key, so the
// join may come back empty.
func (r *PostgresFileRepository) selectFiles() squirrel.SelectBuilder {
	return r.sb.Select(
		"f.id", "f.file_name", "f.section_id", "f.file_path", "f.file_url",
		"f.original_file_name", "f.file_size", "f.uploaded_at",
		"s.id", "s.name", "s.icon", "s.description", "s.created_at",
	).
		From("files f").
		LeftJoin("sections s ON s.id = f.section_id")
}

func scanFile(row pgx.Row) (*models.File, error) {
	file := &models.File{}
	var (
		sectionID          *int64
		sectionName        *string
		sectionIcon        *string
		sectionDescription *string
		sectionCreatedAt   *time.Time
	)
	err := row.Scan(
		&file.ID, &file.FileName, &file.SectionID, &file.FilePath, &file.FileURL,
		&file.OriginalFileName, &file.FileSize, &file.UploadedAt,
		&sectionID, &sectionName, &sectionIcon, &sectionDescription, &sectionCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sectionID != nil {
		file.Section = &models.Section{
			ID:          *sectionID,
			Name:        *sectionName,
			Icon:        *sectionIcon,
			Description: sectionDescription,
			CreatedAt:   *sectionCreatedAt,
		}
	}
	return file, nil
}

// Create inserts a file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "section_id", "file_path", "file_url", "original_file_name", "file_size").
		Values(file.FileName, file.SectionID, file.FilePath, file.FileURL, file.OriginalFileName, file.FileSize).
		Suffix("RETURNING id, uploaded_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create file SQL")
		return fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.UploadedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintFilesFilePath) {
			return ErrDuplicate
		}
		logger.Error().Err(err).Str("path", file.FilePath).Msg("Error executing create file query")
		return fmt.Errorf("error creating file: %w", err)
	}
	return nil
}

// GetByID retrieves a file record by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	sql, args, err := r.selectFiles().
		Where(squirrel.Eq{"f.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get file by ID SQL")
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	file, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("fileID", id).Msg("Error scanning file row")
		return nil, fmt.Errorf("error getting file by ID: %w", err)
	}
	return file, nil
}

// List retrieves all file records
func (r *PostgresFileRepository) List(ctx context.Context) ([]*models.File, error) {
	return r.list(ctx, r.selectFiles().OrderBy("f.id ASC"))
}

// ListBySection retrieves the file records of one section
func (r *PostgresFileRepository) ListBySection(ctx context.Context, sectionID int64) ([]*models.File, error) {
	return r.list(ctx, r.selectFiles().Where(squirrel.Eq{"f.section_id": sectionID}).OrderBy("f.id ASC"))
}

func (r *PostgresFileRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.File, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list files SQL")
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list files query")
		return nil, fmt.Errorf("error querying files: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning file row during list")
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating file rows")
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}
	return files, nil
}

// Delete deletes a file record by ID
func (r *PostgresFileRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "files", id)
}
