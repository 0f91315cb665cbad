package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
)

func startHub(t *testing.T, sendBuffer int) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(sendBuffer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func registerClient(t *testing.T, hub *Hub, userID int64, role models.Role, events ...EventName) *Client {
	t.Helper()
	client := newClient(hub, nil, userID, role, events, zerolog.Nop())
	require.True(t, hub.Register(client))
	return client
}

func receiveFrame(t *testing.T, client *Client) Frame {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "send queue closed")
		var frame Frame
		require.NoError(t, json.Unmarshal(payload, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return Frame{}
}

func assertNoFrame(t *testing.T, client *Client) {
	t.Helper()
	select {
	case payload := <-client.send:
		t.Fatalf("unexpected frame: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishReachesEverySession(t *testing.T) {
	hub, _ := startHub(t, 0)
	admin := registerClient(t, hub, 1, models.RoleAdmin)
	student := registerClient(t, hub, 2, models.RoleStudent)

	section := models.Section{ID: 7, Name: "CS101", Icon: "💻"}
	require.NoError(t, hub.Publish(context.Background(), NewEvent(EventSectionAdded, section)))

	for _, client := range []*Client{admin, student} {
		frame := receiveFrame(t, client)
		assert.Equal(t, EventSectionAdded, frame.Event)

		var got models.Section
		require.NoError(t, json.Unmarshal(frame.Data, &got))
		assert.Equal(t, section, got)
		assert.False(t, frame.Timestamp.IsZero())
	}
	assert.Equal(t, 2, hub.SessionCount())
}

func TestHub_StudentEventsOnlyReachAdmins(t *testing.T) {
	hub, _ := startHub(t, 0)
	admin := registerClient(t, hub, 1, models.RoleAdmin)
	student := registerClient(t, hub, 2, models.RoleStudent)

	require.NoError(t, hub.Publish(context.Background(), NewEvent(EventStudentDeleted, int64(2))))

	frame := receiveFrame(t, admin)
	assert.Equal(t, EventStudentDeleted, frame.Event)
	assert.JSONEq(t, "2", string(frame.Data))
	assertNoFrame(t, student)
}

func TestHub_SubscriptionFilter(t *testing.T) {
	hub, _ := startHub(t, 0)
	client := registerClient(t, hub, 2, models.RoleStudent, EventNewsPublished)

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, NewEvent(EventSectionAdded, models.Section{ID: 1})))
	require.NoError(t, hub.Publish(ctx, NewEvent(EventNewsPublished, models.News{ID: 3})))

	assert.Equal(t, EventNewsPublished, receiveFrame(t, client).Event)
	assertNoFrame(t, client)

	client.handleControlMessage([]byte(`{"action":"subscribe","events":["section-deleted","bogus"]}`))
	client.handleControlMessage([]byte(`{"action":"unsubscribe","events":["news-published"]}`))
	assert.True(t, client.Subscribed(EventSectionDeleted))
	assert.False(t, client.Subscribed(EventNewsPublished))
	assert.False(t, client.Subscribed("bogus"))
}

func TestHub_PreservesPublishOrder(t *testing.T) {
	hub, _ := startHub(t, 0)
	client := registerClient(t, hub, 1, models.RoleAdmin)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, hub.Publish(context.Background(), NewEvent(EventNewsDeleted, i)))
	}
	for i := int64(1); i <= 5; i++ {
		var id int64
		require.NoError(t, json.Unmarshal(receiveFrame(t, client).Data, &id))
		assert.Equal(t, i, id)
	}
}

func TestHub_DropsSessionWithFullQueue(t *testing.T) {
	hub, _ := startHub(t, 1)
	slow := registerClient(t, hub, 1, models.RoleStudent)

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, NewEvent(EventNewsDeleted, int64(1))))
	require.NoError(t, hub.Publish(ctx, NewEvent(EventNewsDeleted, int64(2))))

	// Nobody reads, so the second frame overflows the one-slot queue.
	require.Eventually(t, func() bool { return hub.SessionCount() == 0 }, time.Second, 10*time.Millisecond)

	// The frame queued before the overflow is kept, then the queue is closed.
	var id int64
	require.NoError(t, json.Unmarshal(receiveFrame(t, slow).Data, &id))
	assert.Equal(t, int64(1), id)
	select {
	case _, ok := <-slow.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("slow session was not dropped")
	}
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub, cancel := startHub(t, 0)
	client := registerClient(t, hub, 1, models.RoleAdmin)
	cancel()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("session not closed on shutdown")
	}

	<-hub.done
	err := hub.Publish(context.Background(), NewEvent(EventNewsDeleted, int64(1)))
	assert.ErrorIs(t, err, ErrHubStopped)
}

func TestParseEventList(t *testing.T) {
	assert.Equal(t,
		[]EventName{EventNewsPublished, EventNewsDeleted},
		ParseEventList(" news-published, nope ,news-deleted"))
	assert.Empty(t, ParseEventList(""))
}

func TestHandler_DeliversFramesOverWebSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub, _ := startHub(t, 0)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set("userID", int64(9))
		c.Set("role", models.RoleStudent)
	}, NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?events=knowledge-added"
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 10*time.Millisecond)

	entry := models.KnowledgeEntry{ID: 4, Question: "How do I get a refund?", Answer: "Ask the bursar."}
	require.NoError(t, hub.Publish(context.Background(), NewEvent(EventKnowledgeAdded, entry)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, EventKnowledgeAdded, frame.Event)

	var got models.KnowledgeEntry
	require.NoError(t, json.Unmarshal(frame.Data, &got))
	assert.Equal(t, entry.Question, got.Question)
}
