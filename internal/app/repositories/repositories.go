package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusportal/internal/app/models"
)

// Repository level errors, translated by services into apperrors
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository is the identity store
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUniversityID(ctx context.Context, universityID string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// SectionRepository is the section content store
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	List(ctx context.Context) ([]*models.Section, error)
	Delete(ctx context.Context, id int64) error
}

// FileRepository is the file record store. Listing populates each record's
// Section, leaving it nil when the section no longer exists.
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id int64) (*models.File, error)
	List(ctx context.Context) ([]*models.File, error)
	ListBySection(ctx context.Context, sectionID int64) ([]*models.File, error)
	Delete(ctx context.Context, id int64) error
}

// NewsRepository is the news store, listed newest first
type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id int64) (*models.News, error)
	List(ctx context.Context) ([]*models.News, error)
	Delete(ctx context.Context, id int64) error
}

// KnowledgeRepository is the knowledge base store
type KnowledgeRepository interface {
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error)
	List(ctx context.Context) ([]*models.KnowledgeEntry, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Users     UserRepository
	Sections  SectionRepository
	Files     FileRepository
	News      NewsRepository
	Knowledge KnowledgeRepository
}

// NewRepositories initializes the PostgreSQL repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Sections:  NewSectionRepository(db),
		Files:     NewFileRepository(db),
		News:      NewNewsRepository(db),
		Knowledge: NewKnowledgeRepository(db),
	}
}

// statementBuilder uses PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
