package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// AssignStaffCommandHandler records an assignment. Reassignments keep the
// previous staff member and the reason in the assignment log.
type AssignStaffCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

// NewAssignStaffCommandHandler creates the handler.
func NewAssignStaffCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) AssignStaffCommandHandler {
	return AssignStaffCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

func (h *AssignStaffCommandHandler) Handle(ctx context.Context, cmd AssignStaffCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(_ context.Context, _ FulfillmentUoW, o *order.Order) error {
			return o.AssignStaff(cmd.StaffID(), cmd.Actor(), cmd.Reason(), now())
		})
}
