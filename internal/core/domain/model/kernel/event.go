package kernel

import "time"

// Outbox topics.
const (
	TopicOrderEvents     = "order.events"
	TopicInventoryAlerts = "inventory.alerts"
)

// Event is a domain event raised by an aggregate. Events are written to the
// outbox in the same transaction as the change that raised them.
type Event struct {
	Topic      string
	Name       string
	Key        string
	Payload    any
	OccurredAt time.Time
}

// EventSource is implemented by aggregates that raise events.
type EventSource interface {
	PullEvents() []Event
}

// EventRecorder is embedded by aggregates to collect events until they are pulled.
type EventRecorder struct {
	events []Event
}

func (r *EventRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns the recorded events and forgets them.
func (r *EventRecorder) PullEvents() []Event {
	out := r.events
	r.events = nil
	return out
}
