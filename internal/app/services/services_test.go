package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/filestorage"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event websocket.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}

type fixture struct {
	store      *memory.Store
	services   *Services
	publisher  *recordingPublisher
	storageDir string
	storage    *filestorage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	auth.BcryptCost = 4

	store := memory.NewStore()
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})

	return &fixture{
		store:      store,
		services:   NewServices(store.Repositories(), storage, publisher, jwtService, zerolog.Nop()),
		publisher:  publisher,
		storageDir: dir,
		storage:    storage,
	}
}

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestSectionService_CreateListsAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	section, err := f.services.Sections.Create(ctx, &dto.CreateSectionRequest{Name: "CS101", Icon: "💻"})
	require.NoError(t, err)
	assert.NotZero(t, section.ID)
	assert.False(t, section.CreatedAt.IsZero())

	sections, err := f.services.Sections.List(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, section, sections[0])

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, websocket.EventSectionAdded, events[0].Name)
	assert.Equal(t, section, events[0].Data)
}

func TestSectionService_MissingIcon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Sections.Create(ctx, &dto.CreateSectionRequest{Name: "CS101", Icon: "  "})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, []string{"icon"}, apperrors.FieldsOf(err))

	sections, err := f.services.Sections.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.Empty(t, f.publisher.Events())
}

func TestDeleteMissingIsNotFoundWithoutEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deletes := map[string]func(context.Context, int64) error{
		"section":   f.services.Sections.Delete,
		"file":      f.services.Files.Delete,
		"news":      f.services.News.Delete,
		"knowledge": f.services.Knowledge.Delete,
		"student":   f.services.Users.DeleteStudent,
	}
	for name, del := range deletes {
		err := del(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, name)
	}
	assert.Empty(t, f.publisher.Events())
}

func TestDeleteTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	news, err := f.services.News.Create(ctx, &dto.CreateNewsRequest{Title: "Exams", Content: "Start Monday"})
	require.NoError(t, err)

	require.NoError(t, f.services.News.Delete(ctx, news.ID))
	err = f.services.News.Delete(ctx, news.ID)
	assert.ErrorIs(t, err, apperrors.ErrNewsNotFound)

	events := f.publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, websocket.EventNewsDeleted, events[1].Name)
	assert.Equal(t, news.ID, events[1].Data)
}

func TestNewsService_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "new"} {
		at := base.Add(time.Duration(i) * time.Hour)
		f.store.SetClock(func() time.Time { return at })
		_, err := f.services.News.Create(ctx, &dto.CreateNewsRequest{Title: title, Content: "x"})
		require.NoError(t, err)
	}

	posts, err := f.services.News.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].Title)
	assert.Equal(t, "old", posts[1].Title)
}

func TestKnowledgeService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries := []dto.CreateKnowledgeRequest{
		{Question: "How do I get a REFUND?", Answer: "Visit the bursar."},
		{Question: "Tuition deadlines", Answer: "Refunds close in week two."},
		{Question: "Library hours", Answer: "8am to 10pm."},
	}
	for i := range entries {
		_, err := f.services.Knowledge.Create(ctx, &entries[i])
		require.NoError(t, err)
	}

	matches, err := f.services.Knowledge.Search(ctx, "refund")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "How do I get a REFUND?", matches[0].Question)
	assert.Equal(t, "Tuition deadlines", matches[1].Question)

	none, err := f.services.Knowledge.Search(ctx, "parking")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.services.Knowledge.Search(ctx, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestFileService_UploadRequiresSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Files.Upload(ctx,
		&dto.UploadFileRequest{FileName: "Slides", Section: "42"},
		fileHeader(t, "slides.pdf", "pdf"))
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)

	written, err := os.ReadDir(f.storageDir)
	require.NoError(t, err)
	assert.Empty(t, written, "no blob may be written for a missing section")
	assert.Empty(t, f.publisher.Events())

	_, err = f.services.Files.Upload(ctx, &dto.UploadFileRequest{FileName: "Slides", Section: "abc"}, fileHeader(t, "a.pdf", "x"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.services.Files.Upload(ctx, &dto.UploadFileRequest{FileName: "Slides", Section: "1"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, []string{"file"}, apperrors.FieldsOf(err))
}

func TestFileService_UploadAndDeleteWithMissingBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	section, err := f.services.Sections.Create(ctx, &dto.CreateSectionRequest{Name: "CS101", Icon: "💻"})
	require.NoError(t, err)

	file, err := f.services.Files.Upload(ctx,
		&dto.UploadFileRequest{FileName: "Week 1", Section: "1"},
		fileHeader(t, "week1.pdf", "slides"))
	require.NoError(t, err)
	assert.Equal(t, section.ID, file.SectionID)
	assert.Equal(t, "week1.pdf", file.OriginalFileName)
	assert.Equal(t, int64(6), file.FileSize)
	assert.Equal(t, "/uploads/"+file.FilePath, file.FileURL)
	require.NotNil(t, file.Section)

	bySection, err := f.services.Files.ListBySection(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, bySection, 1)

	// Remove the blob behind the service's back.
	require.NoError(t, os.Remove(filepath.Join(f.storageDir, filepath.FromSlash(file.FilePath))))

	require.NoError(t, f.services.Files.Delete(ctx, file.ID))

	files, err := f.services.Files.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	events := f.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, websocket.EventFileUploaded, events[1].Name)
	assert.Equal(t, websocket.EventFileDeleted, events[2].Name)
	assert.Equal(t, file.ID, events[2].Data)
}

func TestFileService_SectionDeleteLeavesDanglingFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	section, err := f.services.Sections.Create(ctx, &dto.CreateSectionRequest{Name: "CS101", Icon: "💻"})
	require.NoError(t, err)
	_, err = f.services.Files.Upload(ctx,
		&dto.UploadFileRequest{FileName: "Week 1", Section: "1"},
		fileHeader(t, "week1.pdf", "slides"))
	require.NoError(t, err)

	require.NoError(t, f.services.Sections.Delete(ctx, section.ID))

	files, err := f.services.Files.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, section.ID, files[0].SectionID)
	assert.Nil(t, files[0].Section)
}

func TestUserService_Students(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Users.EnsureAdmin(ctx, "Admin", "admin", "pw")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = f.services.Users.EnsureAdmin(ctx, "Admin", "admin", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	student, err := f.services.Users.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "Ada Lovelace", UniversityID: "2023001", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.NotEqual(t, "secret", student.Password)

	_, err = f.services.Users.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "Someone Else", UniversityID: "2023001", Password: "x",
	})
	assert.ErrorIs(t, err, apperrors.ErrUniversityIDExists)

	students, err := f.services.Users.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)

	// The admin account is not a student.
	err = f.services.Users.DeleteStudent(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	require.NoError(t, f.services.Users.DeleteStudent(ctx, student.ID))

	events := f.publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, websocket.EventStudentAdded, events[0].Name)
	assert.Equal(t, websocket.EventStudentDeleted, events[1].Name)
	assert.Equal(t, websocket.AudienceAdmins, events[0].Name.Audience())
}

func TestAuthService_LoginAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student, err := f.services.Users.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "Ada Lovelace", UniversityID: "2023001", Password: "secret",
	})
	require.NoError(t, err)

	resp, err := f.services.Auth.Login(ctx, &dto.LoginRequest{UniversityID: "2023001", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, student.ID, resp.User.ID)

	_, err = f.services.Auth.Login(ctx, &dto.LoginRequest{UniversityID: "2023001", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.services.Auth.Login(ctx, &dto.LoginRequest{UniversityID: "nobody", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.services.Auth.Login(ctx, &dto.LoginRequest{})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, []string{"universityId", "password"}, apperrors.FieldsOf(err))

	me, err := f.services.Auth.Me(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", me.FullName)

	require.NoError(t, f.services.Users.DeleteStudent(ctx, student.ID))
	_, err = f.services.Auth.Me(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Users.CreateAdmin(ctx, "Admin", "admin", "old")
	require.NoError(t, err)
	require.NoError(t, f.services.Users.ResetPassword(ctx, "admin", "new"))

	_, err = f.services.Auth.Login(ctx, &dto.LoginRequest{UniversityID: "admin", Password: "new"})
	assert.NoError(t, err)

	err = f.services.Users.ResetPassword(ctx, "ghost", "new")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
