package realtime

import (
	"encoding/json"
	"time"
)

// EventKind tags the union of change events the bridge delivers.
type EventKind string

const (
	KindInteraction   EventKind = "interaction"
	KindListingUpdate EventKind = "listing_update"
	KindEventUpdate   EventKind = "event_update"
	KindProfileUpdate EventKind = "profile_update"
	KindMessage       EventKind = "message"
	KindConversation  EventKind = "conversation"
	KindNotification  EventKind = "notification"
)

// ChangeType mirrors the row-level operation that produced the event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Event is a single row change pushed through the change feed.
type Event struct {
	Kind      EventKind       `json:"kind"`
	Change    ChangeType      `json:"change"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent marshals row into an Event. A row that fails to marshal yields an
// event with an empty payload rather than no event at all.
func NewEvent(kind EventKind, change ChangeType, row interface{}) Event {
	payload, err := json.Marshal(row)
	if err != nil {
		payload = nil
	}
	return Event{
		Kind:      kind,
		Change:    change,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// PayloadField extracts a top-level string field from the payload.
func (e Event) PayloadField(key string) string {
	var m map[string]interface{}
	if err := json.Unmarshal(e.Payload, &m); err != nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
