package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/config"
)

type fakeEnsurer struct {
	calls   int
	created bool
	err     error
	args    []string
}

func (f *fakeEnsurer) EnsureAdmin(_ context.Context, fullName, universityID, password string) (bool, error) {
	f.calls++
	f.args = []string{fullName, universityID, password}
	return f.created, f.err
}

func seedConfig(password string) *config.Config {
	cfg := &config.Config{}
	cfg.Admin.UniversityID = "admin"
	cfg.Admin.FullName = "Administrator"
	cfg.Admin.Password = password
	return cfg
}

func TestCreateDefaultDataSeedsConfiguredAdmin(t *testing.T) {
	f := &fakeEnsurer{created: true}
	err := CreateDefaultData(context.Background(), f, seedConfig("secret"), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, []string{"Administrator", "admin", "secret"}, f.args)
}

func TestCreateDefaultDataSkipsWithoutPassword(t *testing.T) {
	f := &fakeEnsurer{}
	require.NoError(t, CreateDefaultData(context.Background(), f, seedConfig(""), zerolog.Nop()))
	assert.Zero(t, f.calls)
}

func TestCreateDefaultDataWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeEnsurer{err: boom}
	err := CreateDefaultData(context.Background(), f, seedConfig("secret"), zerolog.Nop())
	assert.ErrorIs(t, err, boom)
}
