package websocket

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Control actions a session may send
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

// ControlMessage changes the session's event filter
type ControlMessage struct {
	Action string      `json:"action"`
	Events []EventName `json:"events"`
}

// handleControlMessage applies a subscribe or unsubscribe frame. Anything
// else is logged and ignored; sessions never publish events.
func (c *Client) handleControlMessage(message []byte) {
	message = bytes.TrimSpace(message)
	if len(message) == 0 {
		return
	}

	var msg ControlMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Debug().
			Err(err).
			Str("sessionID", c.id).
			Msg("Ignoring malformed control message")
		return
	}

	switch strings.ToLower(msg.Action) {
	case ActionSubscribe:
		c.Subscribe(msg.Events...)
	case ActionUnsubscribe:
		c.Unsubscribe(msg.Events...)
	default:
		c.logger.Debug().
			Str("sessionID", c.id).
			Str("action", msg.Action).
			Msg("Ignoring unknown control action")
		return
	}

	c.logger.Debug().
		Str("sessionID", c.id).
		Str("action", msg.Action).
		Int("events", len(msg.Events)).
		Msg("Subscription updated")
}

// ParseEventList parses a comma separated list such as "news-published,news-deleted"
func ParseEventList(raw string) []EventName {
	var events []EventName
	for _, part := range strings.Split(raw, ",") {
		name := EventName(strings.TrimSpace(part))
		if name.Known() {
			events = append(events, name)
		}
	}
	return events
}
