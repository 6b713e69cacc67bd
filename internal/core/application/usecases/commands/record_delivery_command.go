package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrRecordDeliveryCommandIsNotConstructed = errors.New(
	"RecordDeliveryCommand must be created via NewRecordDeliveryCommand constructor",
)

// DeliveryEvidence is what the driver captured at the door. Keys point at
// objects in external storage.
type DeliveryEvidence struct {
	SignatureKey  string
	PhotoKey      string
	RecipientName string
	LeftAtDoor    bool
}

// RecordDeliveryCommand completes an order with proof of delivery.
type RecordDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    kernel.Actor
	evidence DeliveryEvidence

	guard guard.ConstructorGuard
}

func NewRecordDeliveryCommand(orderID kernel.UUID, actor kernel.Actor, evidence DeliveryEvidence) (RecordDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return RecordDeliveryCommand{}, err
	}
	if !actor.IsStaff() {
		return RecordDeliveryCommand{}, actor.Unauthorized("record deliveries")
	}
	return RecordDeliveryCommand{
		orderID:  orderID,
		actor:    actor,
		evidence: evidence,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryCommandIsNotConstructed)
}

func (c RecordDeliveryCommand) OrderID() kernel.UUID       { return c.orderID }
func (c RecordDeliveryCommand) Actor() kernel.Actor        { return c.actor }
func (c RecordDeliveryCommand) Evidence() DeliveryEvidence { return c.evidence }
