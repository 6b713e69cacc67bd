package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
)

// ListDeliveriesQuery lists delivery orders that are still on their way:
// confirmed, processing, ready or out for delivery. Admins see every delivery
// or filter by staff member; staff see the ones assigned to them.
type ListDeliveriesQuery struct {
	actor   kernel.Actor
	staffID *kernel.UUID
	date    *time.Time

	guard guard.ConstructorGuard
}

func NewListDeliveriesQuery(actor kernel.Actor, staffID *kernel.UUID, date *time.Time) (ListDeliveriesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListDeliveriesQuery{}, err
	}
	if !actor.IsStaff() {
		return ListDeliveriesQuery{}, actor.Unauthorized("list deliveries")
	}
	if !actor.IsAdmin() {
		staffID = actor.ID()
	}
	return ListDeliveriesQuery{actor: actor, staffID: staffID, date: date, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

type DeliveryView struct {
	OrderID         kernel.UUID  `json:"order_id"`
	Number          string       `json:"number"`
	Status          string       `json:"status"`
	Street          string       `json:"street"`
	Suburb          string       `json:"suburb"`
	Postcode        string       `json:"postcode"`
	Phone           string       `json:"phone,omitempty"`
	ZoneName        string       `json:"zone_name"`
	ScheduledDate   *time.Time   `json:"scheduled_date,omitempty"`
	TimeSlot        string       `json:"time_slot,omitempty"`
	AssignedStaffID *kernel.UUID `json:"assigned_staff_id,omitempty"`
	HasOpenIssue    bool         `json:"has_open_issue"`
}

type ListDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListDeliveriesQueryHandler(db *gorm.DB) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{db: db}
}

func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, query ListDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select(`id, number, status, street, suburb, postcode, phone, zone_name,
			scheduled_date, time_slot, assigned_staff_id,
			(issue_reported_at IS NOT NULL AND issue_resolved_at IS NULL) AS has_open_issue`).
		Where("method = ?", string(order.MethodDelivery)).
		Where("status IN ?", []string{
			order.Confirmed.String(),
			order.Processing.String(),
			order.Ready.String(),
			order.OutForDelivery.String(),
		})
	if query.staffID != nil {
		tx = tx.Where("assigned_staff_id = ?", query.staffID.Bytes())
	}
	if query.date != nil {
		tx = tx.Where("scheduled_date = ?", query.date.Format(time.DateOnly))
	}

	rows, err := tx.Order("scheduled_date NULLS LAST, created_at").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DeliveryView, 0)
	for rows.Next() {
		var (
			d     DeliveryView
			id    uuid.UUID
			staff uuid.NullUUID
		)
		if err = rows.Scan(
			&id, &d.Number, &d.Status, &d.Street, &d.Suburb, &d.Postcode, &d.Phone, &d.ZoneName,
			&d.ScheduledDate, &d.TimeSlot, &staff, &d.HasOpenIssue,
		); err != nil {
			return nil, err
		}
		if d.OrderID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if d.AssignedStaffID, err = nullableUUID(staff); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
