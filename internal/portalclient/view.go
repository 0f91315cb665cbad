package portalclient

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// View is a client-side copy of one entity list. It is filled by a full
// fetch and then kept current by broadcast events: creations are added,
// deletions filter by id. Events missed between the fetch and the
// subscription stay missing until the next Load.
type View[T any] struct {
	mu    sync.RWMutex
	items []T

	added   websocket.EventName
	deleted websocket.EventName
	idOf    func(T) int64

	// NewestFirst inserts created items at the front
	NewestFirst bool
	// Accept, when set, drops created items it returns false for
	Accept func(T) bool
}

// NewView creates an empty view reacting to the added and deleted events
func NewView[T any](added, deleted websocket.EventName, idOf func(T) int64) *View[T] {
	return &View[T]{added: added, deleted: deleted, idOf: idOf}
}

// NewSectionView tracks the section list
func NewSectionView() *View[models.Section] {
	return NewView(websocket.EventSectionAdded, websocket.EventSectionDeleted,
		func(s models.Section) int64 { return s.ID })
}

// NewFileView tracks files. With sectionID > 0 only that section's uploads
// are added.
func NewFileView(sectionID int64) *View[models.File] {
	v := NewView(websocket.EventFileUploaded, websocket.EventFileDeleted,
		func(f models.File) int64 { return f.ID })
	if sectionID > 0 {
		v.Accept = func(f models.File) bool { return f.SectionID == sectionID }
	}
	return v
}

// NewNewsView tracks news, newest first
func NewNewsView() *View[models.News] {
	v := NewView(websocket.EventNewsPublished, websocket.EventNewsDeleted,
		func(n models.News) int64 { return n.ID })
	v.NewestFirst = true
	return v
}

// NewKnowledgeView tracks knowledge base entries
func NewKnowledgeView() *View[models.KnowledgeEntry] {
	return NewView(websocket.EventKnowledgeAdded, websocket.EventKnowledgeDeleted,
		func(k models.KnowledgeEntry) int64 { return k.ID })
}

// NewStudentView tracks student accounts
func NewStudentView() *View[models.User] {
	return NewView(websocket.EventStudentAdded, websocket.EventStudentDeleted,
		func(u models.User) int64 { return u.ID })
}

// Load replaces the view's contents with a full list
func (v *View[T]) Load(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(make([]T, 0, len(items)), items...)
}

// Apply folds one frame into the view. It reports whether the frame was
// addressed to this view; frames for other entities are ignored.
func (v *View[T]) Apply(frame websocket.Frame) (bool, error) {
	switch frame.Event {
	case v.added:
		var item T
		if err := json.Unmarshal(frame.Data, &item); err != nil {
			return true, fmt.Errorf("failed to decode %s payload: %w", frame.Event, err)
		}
		if v.Accept != nil && !v.Accept(item) {
			return true, nil
		}

		v.mu.Lock()
		if v.NewestFirst {
			v.items = append([]T{item}, v.items...)
		} else {
			v.items = append(v.items, item)
		}
		v.mu.Unlock()
		return true, nil

	case v.deleted:
		var id int64
		if err := json.Unmarshal(frame.Data, &id); err != nil {
			return true, fmt.Errorf("failed to decode %s payload: %w", frame.Event, err)
		}

		v.mu.Lock()
		kept := v.items[:0]
		for _, item := range v.items {
			if v.idOf(item) != id {
				kept = append(kept, item)
			}
		}
		v.items = kept
		v.mu.Unlock()
		return true, nil
	}
	return false, nil
}

// Items returns a copy of the current contents
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Len returns the number of items
func (v *View[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}
