package order

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// LineItem is one product line, priced in the order currency.
type LineItem struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice kernel.Money
	LineTotal kernel.Money
}

// HistoryEntry is one append-only status history row. ChangedBy is nil for
// system-driven transitions.
type HistoryEntry struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Status    Status
	Note      string
	ChangedBy *kernel.UUID
	CreatedAt time.Time
}

// Assignment is one row of the staff assignment log.
type Assignment struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	StaffID       kernel.UUID
	PreviousStaff *kernel.UUID
	Reason        string
	AssignedBy    kernel.UUID
	AssignedAt    time.Time
}

// DeliveryIssue is a problem reported while an order was out for delivery.
type DeliveryIssue struct {
	Report     string
	ReportedAt time.Time
	ReportedBy kernel.UUID
	Resolution string
	ResolvedAt *time.Time
	ResolvedBy *kernel.UUID
}

// IsOpen reports an issue without a resolution.
func (i DeliveryIssue) IsOpen() bool {
	return i.ResolvedAt == nil
}

// Schedule is the requested delivery or pickup slot.
type Schedule struct {
	Date     *time.Time
	TimeSlot string
}

// DeliveryProof is captured once per delivered order and never edited.
type DeliveryProof struct {
	id            kernel.UUID
	orderID       kernel.UUID
	signatureKey  string
	photoKey      string
	recipientName string
	leftAtDoor    bool
	capturedBy    kernel.UUID
	capturedAt    time.Time
}

// NewDeliveryProof requires a recipient name, or a photo when left at the door.
func NewDeliveryProof(
	id, orderID kernel.UUID,
	signatureKey, photoKey, recipientName string,
	leftAtDoor bool,
	capturedBy kernel.UUID,
	capturedAt time.Time,
) (DeliveryProof, error) {
	p := DeliveryProof{
		id:            id,
		orderID:       orderID,
		signatureKey:  strings.TrimSpace(signatureKey),
		photoKey:      strings.TrimSpace(photoKey),
		recipientName: strings.TrimSpace(recipientName),
		leftAtDoor:    leftAtDoor,
		capturedBy:    capturedBy,
		capturedAt:    capturedAt,
	}

	var evidenceErr error
	switch {
	case leftAtDoor && p.photoKey == "":
		evidenceErr = errs.NewValueIsRequiredError("photo for left at door delivery")
	case !leftAtDoor && p.recipientName == "":
		evidenceErr = errs.NewValueIsRequiredError("recipient name")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		capturedBy.Validate(),
		evidenceErr,
	); err != nil {
		return DeliveryProof{}, err
	}
	return p, nil
}

func (p DeliveryProof) ID() kernel.UUID         { return p.id }
func (p DeliveryProof) OrderID() kernel.UUID    { return p.orderID }
func (p DeliveryProof) SignatureKey() string    { return p.signatureKey }
func (p DeliveryProof) PhotoKey() string        { return p.photoKey }
func (p DeliveryProof) RecipientName() string   { return p.recipientName }
func (p DeliveryProof) LeftAtDoor() bool        { return p.leftAtDoor }
func (p DeliveryProof) CapturedBy() kernel.UUID { return p.capturedBy }
func (p DeliveryProof) CapturedAt() time.Time   { return p.capturedAt }
