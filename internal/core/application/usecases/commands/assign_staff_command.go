package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrAssignStaffCommandIsNotConstructed = errors.New(
	"AssignStaffCommand must be created via NewAssignStaffCommand constructor",
)

// AssignStaffCommand gives an order to a staff member, or moves it to another one.
type AssignStaffCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	staffID kernel.UUID
	actor   kernel.Actor
	reason  string

	guard guard.ConstructorGuard
}

func NewAssignStaffCommand(orderID, staffID kernel.UUID, actor kernel.Actor, reason string) (AssignStaffCommand, error) {
	if err := errors.Join(orderID.Validate(), staffID.Validate(), actor.Validate()); err != nil {
		return AssignStaffCommand{}, err
	}
	return AssignStaffCommand{
		orderID: orderID,
		staffID: staffID,
		actor:   actor,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignStaffCommand) Validate() error {
	return c.guard.Validate(ErrAssignStaffCommandIsNotConstructed)
}

func (c AssignStaffCommand) OrderID() kernel.UUID { return c.orderID }
func (c AssignStaffCommand) StaffID() kernel.UUID { return c.staffID }
func (c AssignStaffCommand) Actor() kernel.Actor  { return c.actor }
func (c AssignStaffCommand) Reason() string       { return c.reason }
