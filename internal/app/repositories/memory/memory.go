// Package memory implements the repositories in process memory. It backs the
// "memory" database driver and the service and controller tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
)

// Store holds every table. Rows are kept in insertion (id) order.
type Store struct {
	mu sync.RWMutex

	now    func() time.Time
	nextID int64

	users     []*models.User
	sections  []*models.Section
	files     []*models.File
	news      []*models.News
	knowledge []*models.KnowledgeEntry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewRepositories returns repositories sharing a new Store
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories returns repositories backed by s
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:     &UserRepository{s},
		Sections:  &SectionRepository{s},
		Files:     &FileRepository{s},
		News:      &NewsRepository{s},
		Knowledge: &KnowledgeRepository{s},
	}
}

// SetClock overrides the timestamp source, for tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// id and timestamp assignment; callers hold the write lock
func (s *Store) assign() (int64, time.Time) {
	s.nextID++
	return s.nextID, s.now().UTC()
}

func find[T any](rows []*T, id int64, idOf func(*T) int64) (int, bool) {
	for i, row := range rows {
		if idOf(row) == id {
			return i, true
		}
	}
	return -1, false
}

func remove[T any](rows []*T, i int) []*T {
	return append(rows[:i], rows[i+1:]...)
}

func clone[T any](row *T) *T {
	c := *row
	return &c
}

// UserRepository is the in-memory identity store
type UserRepository struct{ s *Store }

func userID(u *models.User) int64 { return u.ID }

// Create inserts a user, rejecting duplicate university IDs
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.UniversityID == user.UniversityID {
			return repositories.ErrDuplicate
		}
	}
	user.ID, user.CreatedAt = r.s.assign()
	r.s.users = append(r.s.users, clone(user))
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i, ok := find(r.s.users, id, userID); ok {
		return clone(r.s.users[i]), nil
	}
	return nil, repositories.ErrNotFound
}

// GetByUniversityID retrieves a user by university ID
func (r *UserRepository) GetByUniversityID(_ context.Context, universityID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.UniversityID == universityID {
			return clone(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ListByRole retrieves users holding role
func (r *UserRepository) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*models.User{}
	for _, u := range r.s.users {
		if u.Role == role {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.users, id, userID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.users[i].Password = passwordHash
	return nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.users, id, userID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.users = remove(r.s.users, i)
	return nil
}

// SectionRepository is the in-memory section store
type SectionRepository struct{ s *Store }

func sectionID(s *models.Section) int64 { return s.ID }

// Create inserts a section
func (r *SectionRepository) Create(_ context.Context, section *models.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	section.ID, section.CreatedAt = r.s.assign()
	r.s.sections = append(r.s.sections, clone(section))
	return nil
}

// GetByID retrieves a section by ID
func (r *SectionRepository) GetByID(_ context.Context, id int64) (*models.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i, ok := find(r.s.sections, id, sectionID); ok {
		return clone(r.s.sections[i]), nil
	}
	return nil, repositories.ErrNotFound
}

// List retrieves all sections
func (r *SectionRepository) List(_ context.Context) ([]*models.Section, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sections := make([]*models.Section, 0, len(r.s.sections))
	for _, section := range r.s.sections {
		sections = append(sections, clone(section))
	}
	return sections, nil
}

// Delete deletes a section by ID. Files referencing it are left in place.
func (r *SectionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.sections, id, sectionID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.sections = remove(r.s.sections, i)
	return nil
}

// FileRepository is the in-memory file record store
type FileRepository struct{ s *Store }

func fileID(f *models.File) int64 { return f.ID }

// populated returns a copy of f with its section joined; callers hold a lock
func (r *FileRepository) populated(f *models.File) *models.File {
	c := clone(f)
	c.Section = nil
	if i, ok := find(r.s.sections, f.SectionID, sectionID); ok {
		c.Section = clone(r.s.sections[i])
	}
	return c
}

// Create inserts a file record, rejecting duplicate storage paths
func (r *FileRepository) Create(_ context.Context, file *models.File) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.files {
		if f.FilePath == file.FilePath {
			return repositories.ErrDuplicate
		}
	}
	file.ID, file.UploadedAt = r.s.assign()
	stored := clone(file)
	stored.Section = nil
	r.s.files = append(r.s.files, stored)
	return nil
}

// GetByID retrieves a file record by ID
func (r *FileRepository) GetByID(_ context.Context, id int64) (*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i, ok := find(r.s.files, id, fileID); ok {
		return r.populated(r.s.files[i]), nil
	}
	return nil, repositories.ErrNotFound
}

// List retrieves all file records
func (r *FileRepository) List(_ context.Context) ([]*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	files := make([]*models.File, 0, len(r.s.files))
	for _, f := range r.s.files {
		files = append(files, r.populated(f))
	}
	return files, nil
}

// ListBySection retrieves the file records of one section
func (r *FileRepository) ListBySection(_ context.Context, id int64) ([]*models.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	files := []*models.File{}
	for _, f := range r.s.files {
		if f.SectionID == id {
			files = append(files, r.populated(f))
		}
	}
	return files, nil
}

// Delete deletes a file record by ID
func (r *FileRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.files, id, fileID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.files = remove(r.s.files, i)
	return nil
}

// NewsRepository is the in-memory news store
type NewsRepository struct{ s *Store }

func newsID(n *models.News) int64 { return n.ID }

// Create inserts a news post
func (r *NewsRepository) Create(_ context.Context, news *models.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	news.ID, news.PublishedAt = r.s.assign()
	r.s.news = append(r.s.news, clone(news))
	return nil
}

// GetByID retrieves a news post by ID
func (r *NewsRepository) GetByID(_ context.Context, id int64) (*models.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i, ok := find(r.s.news, id, newsID); ok {
		return clone(r.s.news[i]), nil
	}
	return nil, repositories.ErrNotFound
}

// List retrieves all news posts, newest first
func (r *NewsRepository) List(_ context.Context) ([]*models.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]*models.News, 0, len(r.s.news))
	for _, n := range r.s.news {
		posts = append(posts, clone(n))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PublishedAt.Equal(posts[j].PublishedAt) {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

// Delete deletes a news post by ID
func (r *NewsRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.news, id, newsID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.news = remove(r.s.news, i)
	return nil
}

// KnowledgeRepository is the in-memory knowledge base
type KnowledgeRepository struct{ s *Store }

func entryID(e *models.KnowledgeEntry) int64 { return e.ID }

// Create inserts an entry
func (r *KnowledgeRepository) Create(_ context.Context, entry *models.KnowledgeEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID, entry.CreatedAt = r.s.assign()
	r.s.knowledge = append(r.s.knowledge, clone(entry))
	return nil
}

// GetByID retrieves an entry by ID
func (r *KnowledgeRepository) GetByID(_ context.Context, id int64) (*models.KnowledgeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i, ok := find(r.s.knowledge, id, entryID); ok {
		return clone(r.s.knowledge[i]), nil
	}
	return nil, repositories.ErrNotFound
}

// List retrieves all entries
func (r *KnowledgeRepository) List(_ context.Context) ([]*models.KnowledgeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := make([]*models.KnowledgeEntry, 0, len(r.s.knowledge))
	for _, e := range r.s.knowledge {
		entries = append(entries, clone(e))
	}
	return entries, nil
}

// Delete deletes an entry by ID
func (r *KnowledgeRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := find(r.s.knowledge, id, entryID)
	if !ok {
		return repositories.ErrNotFound
	}
	r.s.knowledge = remove(r.s.knowledge, i)
	return nil
}

var (
	_ repositories.UserRepository      = (*UserRepository)(nil)
	_ repositories.SectionRepository   = (*SectionRepository)(nil)
	_ repositories.FileRepository      = (*FileRepository)(nil)
	_ repositories.NewsRepository      = (*NewsRepository)(nil)
	_ repositories.KnowledgeRepository = (*KnowledgeRepository)(nil)
)
