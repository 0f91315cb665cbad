//go:build integration

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
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/campusportal/internal/app/models"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisRelay_ForwardsAcrossReplicas(t *testing.T) {
	rdb := startRedis(t)
	const channel = "campusportal:test"

	// Two hubs stand in for two API replicas sharing one Redis.
	hubA, _ := startHub(t, 0)
	hubB, _ := startHub(t, 0)
	relayA := NewRedisRelay(rdb, channel, hubA, zerolog.Nop())
	relayB := NewRedisRelay(rdb, channel, hubB, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = relayA.Run(ctx) }()
	go func() { _ = relayB.Run(ctx) }()

	require.Eventually(t, func() bool {
		counts, err := rdb.PubSubNumSub(ctx, channel).Result()
		return err == nil && counts[channel] == 2
	}, 5*time.Second, 20*time.Millisecond)

	onA := registerClient(t, hubA, 1, models.RoleStudent)
	onB := registerClient(t, hubB, 2, models.RoleStudent)
	adminOnB := registerClient(t, hubB, 3, models.RoleAdmin)

	section := models.Section{ID: 9, Name: "Physics", Icon: "⚛"}
	require.NoError(t, relayA.Publish(ctx, NewEvent(EventSectionAdded, section)))

	for _, client := range []*Client{onA, onB, adminOnB} {
		frame := receiveFrame(t, client)
		assert.Equal(t, EventSectionAdded, frame.Event)

		var got models.Section
		require.NoError(t, json.Unmarshal(frame.Data, &got))
		assert.Equal(t, section, got)
	}

	require.NoError(t, relayB.Publish(ctx, NewEvent(EventStudentAdded, models.User{ID: 4, Role: models.RoleStudent})))
	assert.Equal(t, EventStudentAdded, receiveFrame(t, adminOnB).Event)
	assertNoFrame(t, onA)
	assertNoFrame(t, onB)
}
