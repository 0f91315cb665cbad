package websocket

import (
	"context"
	"encoding/json"
	"time"
)

// EventName identifies a broadcast event
type EventName string

// Broadcast events emitted after successful mutations
const (
	EventSectionAdded     EventName = "section-added"
	EventSectionDeleted   EventName = "section-deleted"
	EventFileUploaded     EventName = "file-uploaded"
	EventFileDeleted      EventName = "file-deleted"
	EventNewsPublished    EventName = "news-published"
	EventNewsDeleted      EventName = "news-deleted"
	EventKnowledgeAdded   EventName = "knowledge-added"
	EventKnowledgeDeleted EventName = "knowledge-deleted"
	EventStudentAdded     EventName = "student-added"
	EventStudentDeleted   EventName = "student-deleted"
)

// AllEvents is the default subscription of a new session
var AllEvents = []EventName{
	EventSectionAdded,
	EventSectionDeleted,
	EventFileUploaded,
	EventFileDeleted,
	EventNewsPublished,
	EventNewsDeleted,
	EventKnowledgeAdded,
	EventKnowledgeDeleted,
	EventStudentAdded,
	EventStudentDeleted,
}

// Known reports whether n is part of the event taxonomy
func (n EventName) Known() bool {
	for _, e := range AllEvents {
		if e == n {
			return true
		}
	}
	return false
}

// Audience selects which sessions may receive an event
type Audience int

const (
	// AudienceAll delivers to every subscribed session
	AudienceAll Audience = iota
	// AudienceAdmins delivers to admin sessions only. It deliberately narrows
	// the broadcast-to-all rule for events carrying student accounts.
	AudienceAdmins
)

// Audience returns who may receive events of this name.
// Student records are only visible to administrators.
func (n EventName) Audience() Audience {
	switch n {
	case EventStudentAdded, EventStudentDeleted:
		return AudienceAdmins
	default:
		return AudienceAll
	}
}

// Event is a single notification handed to a Publisher
type Event struct {
	Name EventName
	// Data is the created entity or the deleted entity's id
	Data interface{}
}

// NewEvent creates an Event
func NewEvent(name EventName, data interface{}) Event {
	return Event{Name: name, Data: data}
}

// Frame is the JSON text frame written to sessions
type Frame struct {
	Event     EventName       `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// EncodeFrame serializes an event into its wire frame
func EncodeFrame(event Event, at time.Time) ([]byte, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{
		Event:     event.Name,
		Data:      data,
		Timestamp: at.UTC(),
	})
}

// Publisher hands events to the broadcast channel. Implementations are
// best-effort: a nil error means the event was accepted, not delivered.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }
