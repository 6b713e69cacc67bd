package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// DeliveryIssueCommandHandler reports or resolves a delivery issue. Issues do
// not change the status; an open one is flagged in every delivery listing.
type DeliveryIssueCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     ports.OrderLocker
	retry      RetryPolicy
}

func NewDeliveryIssueCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker ports.OrderLocker,
	retry RetryPolicy,
) DeliveryIssueCommandHandler {
	return DeliveryIssueCommandHandler{uowFactory: uowFactory, locker: locker, retry: retry}
}

func (h *DeliveryIssueCommandHandler) Handle(ctx context.Context, cmd DeliveryIssueCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return mutateOrder(ctx, h.uowFactory, h.locker, h.retry, cmd.OrderID(),
		func(_ context.Context, _ FulfillmentUoW, o *order.Order) error {
			if cmd.IsResolution() {
				return o.ResolveIssue(cmd.Actor(), cmd.Text(), now())
			}
			return o.ReportIssue(cmd.Actor(), cmd.Text(), now())
		})
}
