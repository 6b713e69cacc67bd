package inventory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// ErrInsufficientStock is returned when a deduction or waste write-off exceeds stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// MovementType is the kind of stock change recorded in the inventory log.
type MovementType string

const (
	Addition   MovementType = "addition"
	Deduction  MovementType = "deduction"
	Adjustment MovementType = "adjustment"
	Waste      MovementType = "waste"
)

func ParseMovementType(s string) (MovementType, error) {
	switch t := MovementType(strings.ToLower(strings.TrimSpace(s))); t {
	case Addition, Deduction, Adjustment, Waste:
		return t, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("movement type", fmt.Errorf("%q is not a movement type", s))
}

// Movement is a requested stock change. For adjustments the quantity is the
// target stock level; for every other type it is the amount moved.
type Movement struct {
	typ       MovementType
	quantity  int
	reason    string
	reference string
	actorID   *kernel.UUID
}

// NewMovement builds an addition, deduction or waste movement of a positive quantity.
func NewMovement(typ MovementType, quantity int, reason, reference string, actorID *kernel.UUID) (Movement, error) {
	if typ == Adjustment {
		return Movement{}, errs.NewValueIsInvalidErrorWithCause("movement type", errors.New("use NewAdjustment"))
	}
	if _, err := ParseMovementType(string(typ)); err != nil {
		return Movement{}, err
	}
	if quantity <= 0 {
		return Movement{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return Movement{typ: typ, quantity: quantity, reason: reason, reference: reference, actorID: actorID}, nil
}

// NewAdjustment builds a movement that sets stock to an explicit target.
func NewAdjustment(target int, reason, reference string, actorID *kernel.UUID) (Movement, error) {
	if target < 0 {
		return Movement{}, errs.NewValueIsOutOfRangeError("target stock", target, 0, "unbounded")
	}
	if strings.TrimSpace(reason) == "" {
		return Movement{}, errs.NewValueIsRequiredError("adjustment reason")
	}
	return Movement{typ: Adjustment, quantity: target, reason: reason, reference: reference, actorID: actorID}, nil
}

func (m Movement) Type() MovementType    { return m.typ }
func (m Movement) Quantity() int         { return m.quantity }
func (m Movement) Reason() string        { return m.reason }
func (m Movement) Reference() string     { return m.reference }
func (m Movement) ActorID() *kernel.UUID { return m.actorID }
func (m Movement) IsDecrease() bool      { return m.typ == Deduction || m.typ == Waste }
func (m Movement) IsZero() bool          { return m.typ == "" }

// Resolve computes the stock after the movement and the quantity to log.
// Adjustments log the absolute delta; a zero delta is rejected.
func (m Movement) Resolve(before int) (after, logged int, err error) {
	switch m.typ {
	case Addition:
		if m.quantity > math.MaxInt-before {
			return before, 0, errs.NewValueIsOutOfRangeError("quantity", m.quantity, 1, math.MaxInt-before)
		}
		return before + m.quantity, m.quantity, nil
	case Deduction, Waste:
		if before < m.quantity {
			return before, 0, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, m.quantity, before)
		}
		return before - m.quantity, m.quantity, nil
	case Adjustment:
		delta := m.quantity - before
		if delta == 0 {
			return before, 0, errs.NewValueIsInvalidErrorWithCause(
				"adjustment",
				fmt.Errorf("stock is already %d", before),
			)
		}
		if delta < 0 {
			delta = -delta
		}
		return m.quantity, delta, nil
	}
	return before, 0, errs.NewValueIsRequiredError("movement")
}
