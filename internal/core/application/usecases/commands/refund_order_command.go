package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrRefundOrderCommandIsNotConstructed = errors.New(
	"RefundOrderCommand must be created via NewRefundOrderCommand constructor",
)

// RefundOrderCommand refunds the completed payment of an order. An order that
// was not delivered is cancelled and restocked as part of the refund.
type RefundOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	reason  string

	guard guard.ConstructorGuard
}

func NewRefundOrderCommand(orderID kernel.UUID, actor kernel.Actor, reason string) (RefundOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return RefundOrderCommand{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "refunded"
	}
	return RefundOrderCommand{
		orderID: orderID,
		actor:   actor,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RefundOrderCommand) Validate() error {
	return c.guard.Validate(ErrRefundOrderCommandIsNotConstructed)
}

func (c RefundOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c RefundOrderCommand) Actor() kernel.Actor  { return c.actor }
func (c RefundOrderCommand) Reason() string       { return c.reason }
