package portalclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// Subscription is an open broadcast session
type Subscription struct {
	conn *gorillaws.Conn
}

// Subscribe opens a broadcast session. With no names it receives every event
// the caller's role may see.
func (c *Client) Subscribe(ctx context.Context, events ...websocket.EventName) (*Subscription, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if len(events) > 0 {
		names := make([]string, len(events))
		for i, e := range events {
			names[i] = string(e)
		}
		q := u.Query()
		q.Set("events", strings.Join(names, ","))
		u.RawQuery = q.Encode()
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := gorillaws.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, err
	}
	return &Subscription{conn: conn}, nil
}

// Next blocks until the next frame arrives or ctx ends. After an error the
// session is unusable and must be closed.
func (s *Subscription) Next(ctx context.Context) (*websocket.Frame, error) {
	// A zero deadline means no timeout.
	deadline, _ := ctx.Deadline()
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var frame websocket.Frame
	if err := s.conn.ReadJSON(&frame); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return &frame, nil
}

// Update changes the event filter of the session
func (s *Subscription) Update(action string, events ...websocket.EventName) error {
	return s.conn.WriteJSON(websocket.ControlMessage{Action: action, Events: events})
}

// Close ends the session
func (s *Subscription) Close() error {
	_ = s.conn.WriteControl(gorillaws.CloseMessage,
		gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
