package event

import "time"

// Event represents one verified notification from the payment processor.
// It is constructed once by the webhook verifier and never mutated.
type Event struct {
	ID      string         `json:"id"`
	Type    Type           `json:"type"`
	Created time.Time      `json:"created"`
	Data    map[string]any `json:"data"`
}

// New creates an event from already-verified payload fields.
func New(id string, eventType Type, created time.Time, data map[string]any) *Event {
	return &Event{
		ID:      id,
		Type:    eventType,
		Created: created,
		Data:    data,
	}
}

// ObjectID returns the id of the resource the event describes, or "" when
// the payload carries none.
func (e *Event) ObjectID() string {
	return e.DataString("id")
}

// DataString retrieves a string value from the event payload.
func (e *Event) DataString(key string) string {
	if val, ok := e.Data[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// DataInt retrieves an int64 value from the event payload. JSON numbers
// decode as float64, so both representations are accepted.
func (e *Event) DataInt(key string) int64 {
	if val, ok := e.Data[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// DataMap retrieves a nested object from the event payload, or nil when the
// key is absent or not an object.
func (e *Event) DataMap(key string) map[string]any {
	if val, ok := e.Data[key]; ok {
		if m, ok := val.(map[string]any); ok {
			return m
		}
	}
	return nil
}
