package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDeliveryIssueCommandIsNotConstructed = errors.New(
	"DeliveryIssueCommand must be created via NewReportDeliveryIssueCommand or NewResolveDeliveryIssueCommand",
)

// DeliveryIssueCommand reports a problem on an order out for delivery, or
// resolves the open one.
type DeliveryIssueCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	text    string
	resolve bool

	guard guard.ConstructorGuard
}

func NewReportDeliveryIssueCommand(orderID kernel.UUID, actor kernel.Actor, report string) (DeliveryIssueCommand, error) {
	return newDeliveryIssueCommand(orderID, actor, report, false)
}

func NewResolveDeliveryIssueCommand(orderID kernel.UUID, actor kernel.Actor, resolution string) (DeliveryIssueCommand, error) {
	return newDeliveryIssueCommand(orderID, actor, resolution, true)
}

func newDeliveryIssueCommand(orderID kernel.UUID, actor kernel.Actor, text string, resolve bool) (DeliveryIssueCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return DeliveryIssueCommand{}, err
	}
	return DeliveryIssueCommand{
		orderID: orderID,
		actor:   actor,
		text:    strings.TrimSpace(text),
		resolve: resolve,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeliveryIssueCommand) Validate() error {
	return c.guard.Validate(ErrDeliveryIssueCommandIsNotConstructed)
}

func (c DeliveryIssueCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeliveryIssueCommand) Actor() kernel.Actor  { return c.actor }
func (c DeliveryIssueCommand) Text() string         { return c.text }
func (c DeliveryIssueCommand) IsResolution() bool   { return c.resolve }
