package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
)

// unreachableRedis points at a port nothing listens on
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRelay_PublishFailureDeliversLocally(t *testing.T) {
	hub, _ := startHub(t, 0)
	client := registerClient(t, hub, 1, models.RoleStudent)
	relay := NewRedisRelay(unreachableRedis(t), "", hub, zerolog.Nop())

	section := models.Section{ID: 3, Name: "History", Icon: "📜"}
	require.NoError(t, relay.Publish(context.Background(), NewEvent(EventSectionAdded, section)))

	frame := receiveFrame(t, client)
	assert.Equal(t, EventSectionAdded, frame.Event)
	var got models.Section
	require.NoError(t, json.Unmarshal(frame.Data, &got))
	assert.Equal(t, section, got)
}

func TestRedisRelay_RunFailureSwitchesToLocal(t *testing.T) {
	hub, _ := startHub(t, 0)
	admin := registerClient(t, hub, 1, models.RoleAdmin)
	relay := NewRedisRelay(unreachableRedis(t), "", hub, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, relay.Run(ctx))
	assert.True(t, relay.LocalOnly())

	require.NoError(t, relay.Publish(ctx, NewEvent(EventStudentDeleted, int64(8))))
	frame := receiveFrame(t, admin)
	assert.Equal(t, EventStudentDeleted, frame.Event)
	assert.JSONEq(t, "8", string(frame.Data))
}

func TestRedisRelay_CancelledRunStaysRemote(t *testing.T) {
	hub, _ := startHub(t, 0)
	relay := NewRedisRelay(unreachableRedis(t), "", hub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, relay.Run(ctx))
	assert.False(t, relay.LocalOnly())
}
