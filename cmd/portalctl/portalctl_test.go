package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/config"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

const testConfig = `
database:
  driver: memory
jwt:
  secret: test-secret
`

type harness struct {
	repos      *repositories.Repositories
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	auth.BcryptCost = 4

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	h := &harness{repos: memory.NewRepositories(), configPath: path}

	prevOpen, prevRead := openUserService, readPasswordFunc
	t.Cleanup(func() {
		openUserService, readPasswordFunc = prevOpen, prevRead
	})
	openUserService = func(_ context.Context, cfg *config.Config) (services.UserService, func(), error) {
		assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
		return services.NewUserService(h.repos.Users, websocket.NopPublisher{}, zerolog.Nop()), func() {}, nil
	}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateAdminWithPasswordFlag(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("create-admin", "-u", "root", "-n", "Root Admin", "-p", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin root")

	user, err := h.repos.Users.GetByUniversityID(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, auth.CheckPassword(user.Password, "s3cret"))
}

func TestAddStudentPromptsForPassword(t *testing.T) {
	h := newHarness(t)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("prompted"), nil }

	out, err := h.run("add-student", "-u", "20230001", "-n", "Ada Lovelace")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter password:")
	assert.Contains(t, out, "Created student 20230001")

	user, err := h.repos.Users.GetByUniversityID(context.Background(), "20230001")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.True(t, auth.CheckPassword(user.Password, "prompted"))
}

func TestEmptyPromptedPasswordIsRejected(t *testing.T) {
	h := newHarness(t)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("  "), nil }

	_, err := h.run("add-student", "-u", "20230001", "-n", "Ada Lovelace")
	assert.ErrorIs(t, err, errEmptyPassword)
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("add-student", "-u", "20230001", "-n", "Ada Lovelace", "-p", "old")
	require.NoError(t, err)

	out, err := h.run("reset-password", "-u", "20230001", "-p", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated for 20230001")

	user, err := h.repos.Users.GetByUniversityID(context.Background(), "20230001")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, "new"))
	assert.False(t, auth.CheckPassword(user.Password, "old"))
}

func TestResetPasswordUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("reset-password", "-u", "ghost", "-p", "new")
	assert.Error(t, err)
}

func TestRequiredFlags(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("create-admin", "-p", "x")
	assert.Error(t, err)
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("migrate")
	assert.ErrorIs(t, err, errMemoryDriver)
}
