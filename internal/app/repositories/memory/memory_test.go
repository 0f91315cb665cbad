package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/repotest"
)

func TestContract(t *testing.T) {
	repotest.Run(t, func(*testing.T) *repositories.Repositories {
		return NewRepositories()
	})
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	section := &models.Section{Name: "CS101", Icon: "💻"}
	require.NoError(t, repos.Sections.Create(ctx, section))
	section.Name = "changed by caller"

	got, err := repos.Sections.GetByID(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS101", got.Name)

	got.Name = "changed again"
	list, err := repos.Sections.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CS101", list[0].Name)
}

func TestNewsOrderUsesClock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	base := time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return base })
	first := &models.News{Title: "first"}
	require.NoError(t, repos.News.Create(ctx, first))
	second := &models.News{Title: "second, same instant"}
	require.NoError(t, repos.News.Create(ctx, second))

	store.SetClock(func() time.Time { return base.Add(-time.Hour) })
	backdated := &models.News{Title: "backdated"}
	require.NoError(t, repos.News.Create(ctx, backdated))

	list, err := repos.News.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{second.ID, first.ID, backdated.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
}
