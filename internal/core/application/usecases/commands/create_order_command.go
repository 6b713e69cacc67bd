package commands

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CartLine is one product in the submitted cart, priced in AUD.
type CartLine struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// CheckoutDetails holds the optional parts of a checkout request.
type CheckoutDetails struct {
	Currency  string
	Discount  kernel.Money
	PromoCode string
	Schedule  order.Schedule
}

// CreateOrderCommand represents a customer checkout.
//
// Example:
//
//	address, _ := kernel.NewAddress("1 George St", "Sydney", "2000", "0412 345 678")
//	cmd, err := NewCreateOrderCommand(customer, lines, order.MethodDelivery, address,
//	    CheckoutDetails{Currency: "NZD"})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer kernel.Actor
	lines    []CartLine
	method   order.Method
	address  kernel.Address
	details  CheckoutDetails

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Stock, zone coverage and the
// exchange rate are checked by the handler.
func NewCreateOrderCommand(
	customer kernel.Actor,
	lines []CartLine,
	method order.Method,
	address kernel.Address,
	details CheckoutDetails,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		orderID: kernel.NewUUID(),
		address: address,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setLines(lines),
		cmd.setMethod(method, address),
		cmd.setDetails(details),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CreateOrderCommand) Customer() kernel.Actor   { return c.customer }
func (c CreateOrderCommand) Lines() []CartLine        { return append([]CartLine(nil), c.lines...) }
func (c CreateOrderCommand) Method() order.Method     { return c.method }
func (c CreateOrderCommand) Address() kernel.Address  { return c.address }
func (c CreateOrderCommand) Details() CheckoutDetails { return c.details }

// Subtotal is the AUD cart value used for free delivery thresholds.
func (c CreateOrderCommand) Subtotal() kernel.Money {
	total := kernel.Zero
	for _, l := range c.lines {
		total = total.Add(l.UnitPrice.Times(l.Quantity))
	}
	return total
}

// Quantities sums quantities per product.
func (c CreateOrderCommand) Quantities() map[kernel.UUID]int {
	out := make(map[kernel.UUID]int, len(c.lines))
	for _, l := range c.lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

func (c *CreateOrderCommand) setCustomer(customer kernel.Actor) error {
	if !customer.IsCustomer() || customer.ID() == nil {
		return customer.Unauthorized("place orders")
	}
	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setLines(lines []CartLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, l := range lines {
		if err := l.ProductID.Validate(); err != nil {
			return err
		}
		if l.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError("quantity", l.Quantity, 1, "unbounded")
		}
	}
	c.lines = append([]CartLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setMethod(method order.Method, address kernel.Address) error {
	if _, err := order.ParseMethod(string(method)); err != nil {
		return err
	}
	if method == order.MethodDelivery && address.IsZero() {
		return errs.NewValueIsRequiredError("delivery address")
	}
	c.method = method
	return nil
}

func (c *CreateOrderCommand) setDetails(details CheckoutDetails) error {
	details.Currency = strings.ToUpper(strings.TrimSpace(details.Currency))
	if details.Currency == "" {
		details.Currency = "AUD"
	}
	if d := details.Schedule.Date; d != nil && d.Before(time.Now().UTC().Truncate(24*time.Hour)) {
		return errs.NewValueIsInvalidErrorWithCause("scheduled date", errors.New("date is in the past"))
	}
	c.details = details
	return nil
}
