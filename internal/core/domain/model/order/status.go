package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// ErrInvalidTransition is returned for non-adjacent, backward or terminal-state moves.
var ErrInvalidTransition = errors.New("invalid transition")

// Status represents the lifecycle state of an order.
//
// Delivery orders:
//
//	Pending ──> Confirmed ──> Processing ──> Ready ──> OutForDelivery ──> Delivered
//
// Pickup orders skip OutForDelivery and go Ready ──> Delivered when collected.
// Cancelled is reachable from every non-terminal state, subject to role guards.
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown (0) catches uninitialised values.
	Unknown Status = iota
	Pending
	Confirmed
	Processing
	Ready
	OutForDelivery
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Processing:     "processing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// transitions is the forward adjacency table per delivery method.
// Cancellation is handled separately by Cancel.
var transitions = map[Method]map[Status]Status{
	MethodDelivery: {
		Pending:        Confirmed,
		Confirmed:      Processing,
		Processing:     Ready,
		Ready:          OutForDelivery,
		OutForDelivery: Delivered,
	},
	MethodPickup: {
		Pending:    Confirmed,
		Confirmed:  Processing,
		Processing: Ready,
		Ready:      Delivered,
	},
}

// ParseStatus reads the persisted or API form, e.g. "out_for_delivery".
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for st, str := range getStatusStrings() {
		if st != Unknown && str == needle {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the seven lifecycle states.
//
// Returns:
//   - nil for Pending through Cancelled
//   - errs.ErrValueIsInvalid for Unknown (0) and out-of-range values
//
// Strings from storage or the API go through ParseStatus instead.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports Delivered or Cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Next returns the single forward successor for the delivery method.
func (s Status) Next(method Method) (Status, bool) {
	next, ok := transitions[method][s]
	return next, ok
}

// CanAdvanceTo checks adjacency only; role guards live on Order.
//
// Returns:
//   - nil when target is the single successor of s for the method
//   - ErrInvalidTransition when s is terminal or target is not adjacent
//
// Example:
//
//	Ready.CanAdvanceTo(OutForDelivery, MethodDelivery) // nil
//	Ready.CanAdvanceTo(Delivered, MethodPickup)        // nil, pickup skips dispatch
//	Pending.CanAdvanceTo(Ready, MethodDelivery)        // ErrInvalidTransition
func (s Status) CanAdvanceTo(target Status, method Method) error {
	if s.IsTerminal() {
		return fmt.Errorf("%w: order is %s", ErrInvalidTransition, s)
	}
	if next, ok := s.Next(method); !ok || next != target {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s, target)
	}
	return nil
}

// ReachedConfirmed reports statuses from Confirmed up to, but excluding, terminal ones.
func (s Status) ReachedConfirmed() bool {
	return s >= Confirmed && !s.IsTerminal()
}

// customerCancellable lists the statuses a customer may cancel from.
// From Ready onwards only staff and admins may cancel.
func (s Status) customerCancellable() bool {
	return s == Pending || s == Confirmed || s == Processing
}

// MarshalText renders the lower snake case name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Method is how the order reaches the customer.
type Method string

const (
	// MethodDelivery orders are resolved to a zone and charged its fee.
	MethodDelivery Method = "delivery"

	// MethodPickup orders are collected in store; no zone and no fee.
	MethodPickup Method = "pickup"
)

// ParseMethod accepts "delivery" or "pickup" in any case and returns
// errs.ErrValueIsInvalid for anything else.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodDelivery, MethodPickup:
		return m, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("delivery method", fmt.Errorf("%q is not a delivery method", s))
}
