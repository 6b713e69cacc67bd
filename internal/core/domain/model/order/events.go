package order

import (
	"time"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
)

// Event names published on kernel.TopicOrderEvents.
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
	EventStaffAssigned = "order.staff_assigned"
	EventIssueReported = "order.issue_reported"
	EventIssueResolved = "order.issue_resolved"
	EventRefunded      = "order.refunded"
)

// EventPayload is the JSON body of every order event. Fields that do not apply
// to an event are omitted.
type EventPayload struct {
	OrderID    kernel.UUID   `json:"order_id"`
	Number     string        `json:"order_number"`
	CustomerID kernel.UUID   `json:"customer_id"`
	Status     Status        `json:"status"`
	From       *Status       `json:"from,omitempty"`
	ActorID    *kernel.UUID  `json:"actor_id,omitempty"`
	StaffID    *kernel.UUID  `json:"staff_id,omitempty"`
	Note       string        `json:"note,omitempty"`
	Total      *kernel.Money `json:"amount,omitempty"`
	Currency   currency.Code `json:"currency,omitempty"`
}

func (o *Order) event(name string, payload EventPayload, at time.Time) kernel.Event {
	payload.OrderID = o.id
	payload.Number = o.number
	payload.CustomerID = o.customerID
	return kernel.Event{
		Topic:      kernel.TopicOrderEvents,
		Name:       name,
		Key:        o.id.String(),
		Payload:    payload,
		OccurredAt: at,
	}
}
