package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrApplyStockMovementCommandIsNotConstructed = errors.New(
	"ApplyStockMovementCommand must be created via NewApplyStockMovementCommand constructor",
)

// ApplyStockMovementCommand is a manual stock change made by staff: an
// addition, deduction or adjustment. Waste never goes through here; it is
// booked by DecideWasteCommandHandler once an entry is approved.
// For adjustments quantity is the counted stock level, otherwise it is the
// number of units moved.
type ApplyStockMovementCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	actor     kernel.Actor
	movement  inventory.Movement

	guard guard.ConstructorGuard
}

func NewApplyStockMovementCommand(
	productID kernel.UUID,
	actor kernel.Actor,
	typ inventory.MovementType,
	quantity int,
	reason, reference string,
) (ApplyStockMovementCommand, error) {
	if err := errors.Join(productID.Validate(), actor.Validate()); err != nil {
		return ApplyStockMovementCommand{}, err
	}
	if !actor.IsStaff() {
		return ApplyStockMovementCommand{}, actor.Unauthorized("move stock")
	}
	if _, err := inventory.ParseMovementType(string(typ)); err != nil {
		return ApplyStockMovementCommand{}, err
	}
	if typ == inventory.Waste {
		return ApplyStockMovementCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"movement type",
			errors.New("waste is booked by approving a waste entry"),
		)
	}

	reason, reference = strings.TrimSpace(reason), strings.TrimSpace(reference)
	var (
		m   inventory.Movement
		err error
	)
	if typ == inventory.Adjustment {
		m, err = inventory.NewAdjustment(quantity, reason, reference, actor.ID())
	} else {
		m, err = inventory.NewMovement(typ, quantity, reason, reference, actor.ID())
	}
	if err != nil {
		return ApplyStockMovementCommand{}, err
	}

	return ApplyStockMovementCommand{
		productID: productID,
		actor:     actor,
		movement:  m,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyStockMovementCommand) Validate() error {
	return c.guard.Validate(ErrApplyStockMovementCommandIsNotConstructed)
}

func (c ApplyStockMovementCommand) ProductID() kernel.UUID       { return c.productID }
func (c ApplyStockMovementCommand) Actor() kernel.Actor          { return c.actor }
func (c ApplyStockMovementCommand) Movement() inventory.Movement { return c.movement }
