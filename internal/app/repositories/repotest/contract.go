// Package repotest holds the behavior every repositories implementation
// must share. Each implementation's tests run it against a fresh store.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
)

// Factory returns repositories over an empty store
type Factory func(t *testing.T) *repositories.Repositories

// Run exercises every repository returned by newRepos
func Run(t *testing.T, newRepos Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newRepos(t)) })
	t.Run("Sections", func(t *testing.T) { testSections(t, newRepos(t)) })
	t.Run("Files", func(t *testing.T) { testFiles(t, newRepos(t)) })
	t.Run("News", func(t *testing.T) { testNews(t, newRepos(t)) })
	t.Run("Knowledge", func(t *testing.T) { testKnowledge(t, newRepos(t)) })
}

func testUsers(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()
	users := repos.Users

	admin := &models.User{FullName: "Admin", UniversityID: "admin", Password: "hash-a", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))
	assert.Positive(t, admin.ID)
	assert.False(t, admin.CreatedAt.IsZero())

	student := &models.User{FullName: "Ada", UniversityID: "2023001", Password: "hash-s", Role: models.RoleStudent}
	require.NoError(t, users.Create(ctx, student))

	err := users.Create(ctx, &models.User{FullName: "Dup", UniversityID: "2023001", Password: "x", Role: models.RoleStudent})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	got, err := users.GetByUniversityID(ctx, "2023001")
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
	assert.Equal(t, "hash-s", got.Password)
	assert.Equal(t, models.RoleStudent, got.Role)

	got, err = users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.UniversityID)

	_, err = users.GetByUniversityID(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	students, err := users.ListByRole(ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.ID, students[0].ID)

	require.NoError(t, users.UpdatePassword(ctx, student.ID, "hash-new"))
	got, err = users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-new", got.Password)
	assert.ErrorIs(t, users.UpdatePassword(ctx, student.ID+1000, "x"), repositories.ErrNotFound)

	require.NoError(t, users.Delete(ctx, student.ID))
	assert.ErrorIs(t, users.Delete(ctx, student.ID), repositories.ErrNotFound)
	_, err = users.GetByID(ctx, student.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	students, err = users.ListByRole(ctx, models.RoleStudent)
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func testSections(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()
	sections := repos.Sections

	empty, err := sections.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	desc := "Intro to programming"
	first := &models.Section{Name: "CS101", Icon: "💻", Description: &desc}
	require.NoError(t, sections.Create(ctx, first))
	second := &models.Section{Name: "MATH", Icon: "📐"}
	require.NoError(t, sections.Create(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	list, err := sections.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "💻", list[0].Icon)
	require.NotNil(t, list[0].Description)
	assert.Equal(t, desc, *list[0].Description)
	assert.Nil(t, list[1].Description)

	require.NoError(t, sections.Delete(ctx, first.ID))
	assert.ErrorIs(t, sections.Delete(ctx, first.ID), repositories.ErrNotFound)
	_, err = sections.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testFiles(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()

	section := &models.Section{Name: "CS101", Icon: "💻"}
	require.NoError(t, repos.Sections.Create(ctx, section))
	other := &models.Section{Name: "MATH", Icon: "📐"}
	require.NoError(t, repos.Sections.Create(ctx, other))

	newFile := func(path string, sectionID int64) *models.File {
		return &models.File{
			FileName:         "Slides " + path,
			SectionID:        sectionID,
			FilePath:         path,
			FileURL:          "/uploads/" + path,
			OriginalFileName: "slides.pdf",
			FileSize:         42,
		}
	}

	a := newFile("files/a.pdf", section.ID)
	require.NoError(t, repos.Files.Create(ctx, a))
	assert.Positive(t, a.ID)
	assert.False(t, a.UploadedAt.IsZero())
	b := newFile("files/b.pdf", other.ID)
	require.NoError(t, repos.Files.Create(ctx, b))

	assert.ErrorIs(t, repos.Files.Create(ctx, newFile("files/a.pdf", section.ID)), repositories.ErrDuplicate)

	got, err := repos.Files.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "files/a.pdf", got.FilePath)
	assert.Equal(t, int64(42), got.FileSize)

	bySection, err := repos.Files.ListBySection(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, bySection, 1)
	assert.Equal(t, a.ID, bySection[0].ID)
	require.NotNil(t, bySection[0].Section)
	assert.Equal(t, "CS101", bySection[0].Section.Name)

	// Deleting a section leaves its files behind with no populated section.
	require.NoError(t, repos.Sections.Delete(ctx, section.ID))
	all, err := repos.Files.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, section.ID, all[0].SectionID)
	assert.Nil(t, all[0].Section)
	require.NotNil(t, all[1].Section)
	assert.Equal(t, "MATH", all[1].Section.Name)

	none, err := repos.Files.ListBySection(ctx, section.ID+1000)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	require.NoError(t, repos.Files.Delete(ctx, a.ID))
	assert.ErrorIs(t, repos.Files.Delete(ctx, a.ID), repositories.ErrNotFound)
}

func testNews(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()

	older := &models.News{Title: "Welcome", Content: "Semester starts"}
	require.NoError(t, repos.News.Create(ctx, older))
	newer := &models.News{Title: "Exams", Content: "Exams start Monday"}
	require.NoError(t, repos.News.Create(ctx, newer))
	assert.False(t, newer.PublishedAt.IsZero())

	list, err := repos.News.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	require.NoError(t, repos.News.Delete(ctx, newer.ID))
	assert.ErrorIs(t, repos.News.Delete(ctx, newer.ID), repositories.ErrNotFound)
	_, err = repos.News.GetByID(ctx, newer.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func testKnowledge(t *testing.T, repos *repositories.Repositories) {
	ctx := context.Background()

	entry := &models.KnowledgeEntry{Question: "How do I get a refund?", Answer: "Visit the bursar."}
	require.NoError(t, repos.Knowledge.Create(ctx, entry))
	assert.Positive(t, entry.ID)

	list, err := repos.Knowledge.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Visit the bursar.", list[0].Answer)

	got, err := repos.Knowledge.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Question, got.Question)

	require.NoError(t, repos.Knowledge.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repos.Knowledge.Delete(ctx, entry.ID), repositories.ErrNotFound)
}
