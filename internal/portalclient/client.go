// Package portalclient is a Go client for the portal HTTP API and its
// broadcast channel.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
)

// APIError is a non-2xx response decoded from the error body
type APIError struct {
	StatusCode int
	Response   dto.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal api: %d %s: %s", e.StatusCode, e.Response.Code, e.Response.Message)
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an existing bearer token
func WithToken(token string, role models.Role) Option {
	return func(c *Client) {
		c.token = token
		c.role = role
	}
}

// Client calls the portal API as one user. It is safe for sequential use;
// Login must not race with other calls.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	role    models.Role
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token obtained by Login
func (c *Client) Token() string { return c.token }

// Login authenticates and keeps the token for later calls
func (c *Client) Login(ctx context.Context, universityID, password string) (*models.User, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		UniversityID: universityID,
		Password:     password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	c.role = resp.User.Role
	return resp.User, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// scoped picks the admin or student route for endpoints both roles can read
func (c *Client) scoped(resource string) string {
	if c.role.IsAdmin() {
		return "/api/admin/" + resource
	}
	return "/api/student/" + resource
}

// ListSections returns every section
func (c *Client) ListSections(ctx context.Context) ([]models.Section, error) {
	var out []models.Section
	return out, c.do(ctx, http.MethodGet, c.scoped("sections"), nil, &out)
}

// CreateSection creates a section (admin only)
func (c *Client) CreateSection(ctx context.Context, req dto.CreateSectionRequest) (*models.Section, error) {
	var out models.Section
	if err := c.do(ctx, http.MethodPost, "/api/admin/sections", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSection deletes a section (admin only)
func (c *Client) DeleteSection(ctx context.Context, id int64) error {
	return c.deleteByID(ctx, "/api/admin/sections/", id)
}

// ListStudents returns every student account (admin only)
func (c *Client) ListStudents(ctx context.Context) ([]models.User, error) {
	var out []models.User
	return out, c.do(ctx, http.MethodGet, "/api/admin/students", nil, &out)
}

// CreateStudent creates a student account (admin only)
func (c *Client) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/api/admin/students", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent deletes a student account (admin only)
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.deleteByID(ctx, "/api/admin/students/", id)
}

// ListFiles returns every file record (admin only)
func (c *Client) ListFiles(ctx context.Context) ([]models.File, error) {
	var out []models.File
	return out, c.do(ctx, http.MethodGet, "/api/admin/files", nil, &out)
}

// ListSectionFiles returns the files of one section
func (c *Client) ListSectionFiles(ctx context.Context, sectionID int64) ([]models.File, error) {
	var out []models.File
	path := "/api/student/files/" + strconv.FormatInt(sectionID, 10)
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

// UploadFile uploads content as a new file of sectionID (admin only)
func (c *Client) UploadFile(ctx context.Context, fileName string, sectionID int64, originalName string, content io.Reader) (*models.File, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("fileName", fileName); err != nil {
		return nil, err
	}
	if err := mw.WriteField("section", strconv.FormatInt(sectionID, 10)); err != nil {
		return nil, err
	}
	part, err := mw.CreateFormFile("file", originalName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/admin/files", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.File
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile deletes a file record and its blob (admin only)
func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	return c.deleteByID(ctx, "/api/admin/files/", id)
}

// ListNews returns news, newest first
func (c *Client) ListNews(ctx context.Context) ([]models.News, error) {
	var out []models.News
	return out, c.do(ctx, http.MethodGet, c.scoped("news"), nil, &out)
}

// PublishNews publishes a news item (admin only)
func (c *Client) PublishNews(ctx context.Context, req dto.CreateNewsRequest) (*models.News, error) {
	var out models.News
	if err := c.do(ctx, http.MethodPost, "/api/admin/news", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNews deletes a news item (admin only)
func (c *Client) DeleteNews(ctx context.Context, id int64) error {
	return c.deleteByID(ctx, "/api/admin/news/", id)
}

// ListKnowledge returns every knowledge base entry (admin only)
func (c *Client) ListKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error) {
	var out []models.KnowledgeEntry
	return out, c.do(ctx, http.MethodGet, "/api/admin/knowledge-base", nil, &out)
}

// AddKnowledge adds a knowledge base entry (admin only)
func (c *Client) AddKnowledge(ctx context.Context, req dto.CreateKnowledgeRequest) (*models.KnowledgeEntry, error) {
	var out models.KnowledgeEntry
	if err := c.do(ctx, http.MethodPost, "/api/admin/knowledge-base", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteKnowledge deletes a knowledge base entry (admin only)
func (c *Client) DeleteKnowledge(ctx context.Context, id int64) error {
	return c.deleteByID(ctx, "/api/admin/knowledge-base/", id)
}

// Search queries the knowledge base
func (c *Client) Search(ctx context.Context, query string) ([]models.KnowledgeEntry, error) {
	var out []models.KnowledgeEntry
	return out, c.do(ctx, http.MethodPost, "/api/student/assistant/search", dto.SearchRequest{Query: query}, &out)
}

func (c *Client) deleteByID(ctx context.Context, prefix string, id int64) error {
	return c.do(ctx, http.MethodDelete, prefix+strconv.FormatInt(id, 10), nil, &dto.SuccessResponse{})
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr.Response); err != nil {
			apiErr.Response.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
