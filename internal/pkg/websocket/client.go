package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Control frames are tiny
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the portal origin; tokens gate access.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between one websocket session and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound frames, closed by the hub
	send chan []byte

	// Session id, for logs
	id string

	userID int64
	role   models.Role

	subsMu        sync.RWMutex
	subscriptions map[EventName]struct{}

	logger zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID int64, role models.Role, events []EventName, logger zerolog.Logger) *Client {
	c := &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, hub.sendBuffer),
		id:            uuid.NewString(),
		userID:        userID,
		role:          role,
		subscriptions: make(map[EventName]struct{}),
		logger:        logger,
	}
	if len(events) == 0 {
		events = AllEvents
	}
	c.Subscribe(events...)
	return c
}

// Subscribed reports whether the session wants events of this name
func (c *Client) Subscribed(name EventName) bool {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	_, ok := c.subscriptions[name]
	return ok
}

// Subscribe adds event names to the session filter. Unknown names are ignored.
func (c *Client) Subscribe(names ...EventName) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, name := range names {
		if name.Known() {
			c.subscriptions[name] = struct{}{}
		}
	}
}

// Unsubscribe removes event names from the session filter
func (c *Client) Unsubscribe(names ...EventName) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, name := range names {
		delete(c.subscriptions, name)
	}
}

// readPump reads control frames until the connection fails
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Str("sessionID", c.id).
					Int64("userID", c.userID).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Str("sessionID", c.id).
					Int64("userID", c.userID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Str("sessionID", c.id).
					Int64("userID", c.userID).
					Msg("WebSocket read error")
			}
			break
		}

		c.handleControlMessage(message)
	}
}

// writePump writes queued frames and keepalive pings to the connection.
// Every frame is a separate text message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
