package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order with its lines, status history and delivery
// details. Customers only see their own orders.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderView is the order snapshot shown to customers and staff.
type OrderView struct {
	ID              kernel.UUID   `json:"id"`
	Number          string        `json:"number"`
	CustomerID      kernel.UUID   `json:"customer_id"`
	Status          string        `json:"status"`
	Method          string        `json:"method"`
	Currency        string        `json:"currency"`
	ExchangeRate    string        `json:"exchange_rate"`
	Subtotal        kernel.Money  `json:"subtotal"`
	DeliveryFee     kernel.Money  `json:"delivery_fee"`
	Discount        kernel.Money  `json:"discount"`
	Total           kernel.Money  `json:"total"`
	PromoCode       string        `json:"promo_code,omitempty"`
	Street          string        `json:"street,omitempty"`
	Suburb          string        `json:"suburb,omitempty"`
	Postcode        string        `json:"postcode,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	ZoneName        string        `json:"zone_name,omitempty"`
	EstimatedDays   int           `json:"estimated_days"`
	ScheduledDate   *time.Time    `json:"scheduled_date,omitempty"`
	TimeSlot        string        `json:"time_slot,omitempty"`
	AssignedStaffID *kernel.UUID  `json:"assigned_staff_id,omitempty"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	Issue           *IssueView    `json:"issue,omitempty"`
	Proof           *ProofView    `json:"proof,omitempty"`
	Items           []ItemView    `json:"items"`
	History         []HistoryView `json:"history"`
	Assignments     []AssignView  `json:"assignments,omitempty"`
}

type ItemView struct {
	ProductID kernel.UUID  `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice kernel.Money `json:"unit_price"`
	LineTotal kernel.Money `json:"line_total"`
}

type HistoryView struct {
	Status    string       `json:"status"`
	Note      string       `json:"note,omitempty"`
	ChangedBy *kernel.UUID `json:"changed_by,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type AssignView struct {
	StaffID       kernel.UUID  `json:"staff_id"`
	PreviousStaff *kernel.UUID `json:"previous_staff_id,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	AssignedBy    kernel.UUID  `json:"assigned_by"`
	AssignedAt    time.Time    `json:"assigned_at"`
}

type IssueView struct {
	Report     string       `json:"report"`
	ReportedAt time.Time    `json:"reported_at"`
	Resolution string       `json:"resolution,omitempty"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
	ResolvedBy *kernel.UUID `json:"resolved_by,omitempty"`
}

type ProofView struct {
	SignatureKey  string    `json:"signature_key,omitempty"`
	PhotoKey      string    `json:"photo_key,omitempty"`
	RecipientName string    `json:"recipient_name,omitempty"`
	LeftAtDoor    bool      `json:"left_at_door"`
	CapturedAt    time.Time `json:"captured_at"`
}
