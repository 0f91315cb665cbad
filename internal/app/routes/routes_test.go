package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusportal/internal/app/controllers"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/middleware"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/filestorage"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

type testApp struct {
	router       *gin.Engine
	repos        *repositories.Repositories
	jwt          *auth.JWTService
	adminToken   string
	studentToken string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = 4

	repos := memory.NewRepositories()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})

	svc := services.NewServices(repos, storage, websocket.NopPublisher{}, jwtService, zerolog.Nop())
	hub := websocket.NewHub(8, zerolog.Nop())

	router := gin.New()
	SetupRouter(router, &Controllers{
		Auth:      controllers.NewAuthController(svc.Auth),
		Sections:  controllers.NewSectionController(svc.Sections),
		Students:  controllers.NewStudentController(svc.Users),
		Files:     controllers.NewFileController(svc.Files),
		News:      controllers.NewNewsController(svc.News),
		Knowledge: controllers.NewKnowledgeController(svc.Knowledge),
		Health:    controllers.NewHealthController(hub),
		WebSocket: websocket.NewHandler(hub, zerolog.Nop()),
	}, middleware.NewAuthMiddleware(jwtService))

	app := &testApp{router: router, repos: repos, jwt: jwtService}
	app.adminToken = app.createUser(t, "admin", "admin-pass", models.RoleAdmin)
	app.studentToken = app.createUser(t, "20230001", "student-pass", models.RoleStudent)
	return app
}

func (a *testApp) createUser(t *testing.T, universityID, password string, role models.Role) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{FullName: "User " + universityID, UniversityID: universityID, Password: hash, Role: role}
	require.NoError(t, a.repos.Users.Create(context.Background(), user))

	token, _, err := a.jwt.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

var adminRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/admin/sections"},
	{http.MethodPost, "/api/admin/sections"},
	{http.MethodDelete, "/api/admin/sections/1"},
	{http.MethodGet, "/api/admin/students"},
	{http.MethodPost, "/api/admin/students"},
	{http.MethodDelete, "/api/admin/students/1"},
	{http.MethodGet, "/api/admin/files"},
	{http.MethodPost, "/api/admin/files"},
	{http.MethodDelete, "/api/admin/files/1"},
	{http.MethodGet, "/api/admin/news"},
	{http.MethodPost, "/api/admin/news"},
	{http.MethodDelete, "/api/admin/news/1"},
	{http.MethodGet, "/api/admin/knowledge-base"},
	{http.MethodPost, "/api/admin/knowledge-base"},
	{http.MethodDelete, "/api/admin/knowledge-base/1"},
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	app := newTestApp(t)

	for _, r := range adminRoutes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := app.do(r.method, r.path, app.studentToken, []byte(`{}`))
			assert.Equal(t, http.StatusForbidden, rec.Code)
			resp := errorBody(t, rec)
			assert.Equal(t, dto.ErrorCodeForbidden, resp.Code)
			assert.Equal(t, "Access denied. Admin only.", resp.Message)
		})
	}

	// Nothing was created behind the rejected calls.
	sections, err := app.repos.Sections.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		token    string
		wantCode dto.ErrorCode
	}{
		{"missing", "", dto.ErrorCodeUnauthorized},
		{"malformed", "not-a-token", dto.ErrorCodeInvalidToken},
		{"forged", app.adminToken + "x", dto.ErrorCodeInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/admin/sections", "/api/student/sections", "/api/auth/me"} {
				rec := app.do(http.MethodGet, path, tt.token, nil)
				assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
				assert.Equal(t, tt.wantCode, errorBody(t, rec).Code, path)
			}
		})
	}
}

func TestStudentRoutesAllowBothRoles(t *testing.T) {
	app := newTestApp(t)

	for _, token := range []string{app.studentToken, app.adminToken} {
		assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/student/sections", token, nil).Code)
		assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/student/news", token, nil).Code)
		assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/student/files/1", token, nil).Code)
		assert.Equal(t, http.StatusOK,
			app.do(http.MethodPost, "/api/student/assistant/search", token, []byte(`{"query":"refund"}`)).Code)
	}

	// Empty collections are arrays, not null.
	rec := app.do(http.MethodGet, "/api/student/sections", app.studentToken, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMissingFields(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		path       string
		token      string
		body       []byte
		wantFields []string
	}{
		{"section empty object", "/api/admin/sections", app.adminToken, []byte(`{}`), []string{"name", "icon"}},
		{"section without icon", "/api/admin/sections", app.adminToken, []byte(`{"name":"CS101"}`), []string{"icon"}},
		{"section no body", "/api/admin/sections", app.adminToken, nil, []string{"name", "icon"}},
		{"student", "/api/admin/students", app.adminToken, []byte(`{"fullName":"Ada"}`), []string{"universityId", "password"}},
		{"news", "/api/admin/news", app.adminToken, []byte(`{"title":"Exams"}`), []string{"content"}},
		{"knowledge", "/api/admin/knowledge-base", app.adminToken, []byte(`{"answer":"Yes"}`), []string{"question"}},
		{"search", "/api/student/assistant/search", app.studentToken, []byte(`{}`), []string{"query"}},
		{"login", "/api/auth/login", "", []byte(`{"universityId":"admin"}`), []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := errorBody(t, rec)
			assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Code)
			assert.Equal(t, tt.wantFields, resp.Fields)
		})
	}
}

func TestCreateAndDeleteTwice(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/admin/sections", app.adminToken,
		mustJSON(t, dto.CreateSectionRequest{Name: "CS101", Icon: "💻"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var section models.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &section))
	assert.Equal(t, "CS101", section.Name)

	path := "/api/admin/sections/" + jsonInt(section.ID)
	rec = app.do(http.MethodDelete, path, app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Section deleted"}`, rec.Body.String())

	rec = app.do(http.MethodDelete, path, app.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := errorBody(t, rec)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Code)
	assert.Equal(t, "Section not found", resp.Message)
}

func jsonInt(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestInvalidIDParam(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/admin/news/abc", "/api/admin/news/0", "/api/admin/news/-4"} {
		rec := app.do(http.MethodDelete, path, app.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, []string{"id"}, errorBody(t, rec).Fields, path)
	}
}

func TestDeleteStudentOnlyDeletesStudents(t *testing.T) {
	app := newTestApp(t)

	admin, err := app.repos.Users.GetByUniversityID(context.Background(), "admin")
	require.NoError(t, err)

	rec := app.do(http.MethodDelete, "/api/admin/students/"+jsonInt(admin.ID), app.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", errorBody(t, rec).Message)
}

func TestLoginAndMe(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/auth/login", "",
		mustJSON(t, dto.LoginRequest{UniversityID: "20230001", Password: "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errorBody(t, rec).Code)

	rec = app.do(http.MethodPost, "/api/auth/login", "",
		mustJSON(t, dto.LoginRequest{UniversityID: "nobody", Password: "student-pass"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodPost, "/api/auth/login", "",
		mustJSON(t, dto.LoginRequest{UniversityID: "20230001", Password: "student-pass"}))
	require.Equal(t, http.StatusOK, rec.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleStudent, login.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = app.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "20230001", me.UniversityID)
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (a *testApp) upload(t *testing.T, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+a.adminToken)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadFile(t *testing.T) {
	app := newTestApp(t)
	section := &models.Section{Name: "CS101", Icon: "💻"}
	require.NoError(t, app.repos.Sections.Create(context.Background(), section))
	sectionID := jsonInt(section.ID)

	t.Run("missing file and name", func(t *testing.T) {
		rec := app.upload(t, map[string]string{"section": sectionID}, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"fileName", "file"}, errorBody(t, rec).Fields)
	})

	t.Run("missing file only", func(t *testing.T) {
		rec := app.upload(t, map[string]string{"section": sectionID, "fileName": "Slides"}, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"file"}, errorBody(t, rec).Fields)
	})

	t.Run("unknown section", func(t *testing.T) {
		rec := app.upload(t, map[string]string{"section": "999", "fileName": "Slides"}, "a.pdf", "x")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Section not found", errorBody(t, rec).Message)
	})

	t.Run("created", func(t *testing.T) {
		rec := app.upload(t, map[string]string{"section": sectionID, "fileName": "Slides"}, "week1.pdf", "%PDF-1.4")
		require.Equal(t, http.StatusCreated, rec.Code)
		var file models.File
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))
		assert.Equal(t, "Slides", file.FileName)
		assert.Equal(t, "week1.pdf", file.OriginalFileName)
		assert.Equal(t, section.ID, file.SectionID)
		require.NotNil(t, file.Section)
		assert.Equal(t, "CS101", file.Section.Name)

		rec = app.do(http.MethodGet, "/api/student/files/"+sectionID, app.studentToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var files []models.File
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
		require.Len(t, files, 1)
		assert.Equal(t, file.ID, files[0].ID)
	})
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/admin/knowledge-base", app.adminToken,
		mustJSON(t, dto.CreateKnowledgeRequest{Question: "How do I get a refund?", Answer: "Visit the bursar."}))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = app.do(http.MethodPost, "/api/admin/knowledge-base", app.adminToken,
		mustJSON(t, dto.CreateKnowledgeRequest{Question: "Where is the library?", Answer: "Building C."}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(http.MethodPost, "/api/student/assistant/search", app.studentToken, []byte(`{"query":"REFUND"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var results []models.KnowledgeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "How do I get a refund?", results[0].Question)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, rec.Body.String())
}
