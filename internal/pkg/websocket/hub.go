package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrHubStopped is returned by Publish once the hub loop has exited
var ErrHubStopped = errors.New("broadcast hub stopped")

// DefaultSendBuffer is the per-session outbound queue length
const DefaultSendBuffer = 256

// outbound is a serialized frame queued for fan-out
type outbound struct {
	name     EventName
	audience Audience
	payload  []byte
}

// Hub maintains the set of connected sessions and fans events out to them.
// All session bookkeeping happens on the Run goroutine.
type Hub struct {
	// Connected sessions
	clients map[*Client]struct{}

	// Frames waiting to be fanned out
	broadcast chan outbound

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards clients for SessionCount readers
	mu sync.RWMutex

	// Closed when Run returns
	done chan struct{}

	sendBuffer int
	now        func() time.Time
	logger     zerolog.Logger
}

// NewHub creates a new Hub instance. A sendBuffer <= 0 uses DefaultSendBuffer.
func NewHub(sendBuffer int, logger zerolog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
		now:        time.Now,
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info().Msg("Broadcast hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Publish serializes the event and queues it for every subscribed session.
// It never waits for delivery.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	payload, err := EncodeFrame(event, h.now())
	if err != nil {
		return err
	}
	return h.enqueue(ctx, outbound{
		name:     event.Name,
		audience: event.Name.Audience(),
		payload:  payload,
	})
}

// PublishFrame queues an already serialized frame, as received from a relay.
func (h *Hub) PublishFrame(ctx context.Context, payload []byte) error {
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return err
	}
	return h.enqueue(ctx, outbound{
		name:     frame.Event,
		audience: frame.Event.Audience(),
		payload:  payload,
	})
}

func (h *Hub) enqueue(ctx context.Context, msg outbound) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SessionCount returns the number of connected sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a session to the hub. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a session from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info().
		Str("sessionID", client.id).
		Int64("userID", client.userID).
		Str("role", string(client.role)).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.logger.Info().
		Str("sessionID", client.id).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

// broadcastMessage runs on the hub goroutine, so a slow session is dropped
// in place rather than through the unregister channel.
func (h *Hub) broadcastMessage(msg outbound) {
	delivered := 0
	for client := range h.clients {
		if msg.audience == AudienceAdmins && !client.role.IsAdmin() {
			continue
		}
		if !client.Subscribed(msg.name) {
			continue
		}

		select {
		case client.send <- msg.payload:
			delivered++
		default:
			h.logger.Warn().
				Str("sessionID", client.id).
				Int64("userID", client.userID).
				Str("event", string(msg.name)).
				Msg("Send queue full, dropping session")
			h.unregisterClient(client)
		}
	}

	h.logger.Debug().
		Str("event", string(msg.name)).
		Int("sessions", delivered).
		Msg("Event broadcast")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}
