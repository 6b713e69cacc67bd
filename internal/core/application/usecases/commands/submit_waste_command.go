package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrSubmitWasteCommandIsNotConstructed = errors.New(
	"SubmitWasteCommand must be created via NewSubmitWasteCommand constructor",
)

// SubmitWasteCommand reports spoiled or damaged stock for admin approval.
type SubmitWasteCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	actor     kernel.Actor
	quantity  int
	reason    string
	notes     string
	unitCost  kernel.Money

	guard guard.ConstructorGuard
}

func NewSubmitWasteCommand(
	productID kernel.UUID,
	actor kernel.Actor,
	quantity int,
	reason, notes string,
	unitCost kernel.Money,
) (SubmitWasteCommand, error) {
	if err := errors.Join(productID.Validate(), actor.Validate()); err != nil {
		return SubmitWasteCommand{}, err
	}
	return SubmitWasteCommand{
		productID: productID,
		actor:     actor,
		quantity:  quantity,
		reason:    strings.TrimSpace(reason),
		notes:     strings.TrimSpace(notes),
		unitCost:  unitCost,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitWasteCommand) Validate() error {
	return c.guard.Validate(ErrSubmitWasteCommandIsNotConstructed)
}

func (c SubmitWasteCommand) ProductID() kernel.UUID { return c.productID }
func (c SubmitWasteCommand) Actor() kernel.Actor    { return c.actor }
func (c SubmitWasteCommand) Quantity() int          { return c.quantity }
func (c SubmitWasteCommand) Reason() string         { return c.reason }
func (c SubmitWasteCommand) Notes() string          { return c.notes }
func (c SubmitWasteCommand) UnitCost() kernel.Money { return c.unitCost }
