package telemetry

import "time"

// JSONEvent is the wire format for events serialized to a log file or
// debug stream.
type JSONEvent struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	FiberID   string                 `json:"fiber_id,omitempty"`
	ConnID    string                 `json:"conn_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// ToJSONEvent converts an Event to its wire form.
func ToJSONEvent(e Event) JSONEvent {
	je := JSONEvent{
		Type:      string(e.Type),
		Timestamp: e.Time,
		FiberID:   e.FiberID,
		ConnID:    e.ConnID,
		Error:     e.Error,
	}
	if e.Payload != nil {
		switch p := e.Payload.(type) {
		case map[string]interface{}:
			je.Payload = p
		default:
			je.Payload = map[string]interface{}{"value": e.Payload}
		}
	}
	return je
}

// ToEvent converts a wire-form JSONEvent back to an Event.
func (je JSONEvent) ToEvent() Event {
	var payload any
	if je.Payload != nil {
		payload = je.Payload
	}
	return Event{
		Type:    EventType(je.Type),
		Time:    je.Timestamp,
		FiberID: je.FiberID,
		ConnID:  je.ConnID,
		Payload: payload,
		Error:   je.Error,
	}
}
