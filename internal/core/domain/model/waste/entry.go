// Package waste implements the two-phase write-off workflow: staff report
// physical stock loss and an admin approves or rejects it. Only approval
// touches inventory.
package waste

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	ErrEntryIsNotConstructed = errors.New("Entry must be created via Submit or RestoreEntry")

	// ErrAlreadyDecided is returned when deciding an entry that is no longer pending.
	ErrAlreadyDecided = errors.New("waste entry already decided")
)

// State is derived from the decision timestamps.
type State string

const (
	Pending  State = "pending"
	Approved State = "approved"
	Rejected State = "rejected"
)

// ParseState reads the query and API form of a state.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToLower(s)); st {
	case Pending, Approved, Rejected:
		return st, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("waste state", fmt.Errorf("%q is not a state", s))
}

// Decision records who decided an entry and when.
type Decision struct {
	At time.Time
	By kernel.UUID
}

// Entry is a waste log aggregate. At most one of approved and rejected is set,
// and once either is set the entry is terminal.
type Entry struct {
	id        kernel.UUID
	productID kernel.UUID
	loggedBy  kernel.UUID
	quantity  int
	reason    string
	notes     string
	unitCost  kernel.Money
	createdAt time.Time

	approved       *Decision
	rejected       *Decision
	rejectionNotes string

	isConstructed bool
}

// Submit creates a pending entry. Only staff and admins may report waste.
func Submit(
	id kernel.UUID,
	productID kernel.UUID,
	actor kernel.Actor,
	quantity int,
	reason, notes string,
	unitCost kernel.Money,
	at time.Time,
) (*Entry, error) {
	if !actor.IsStaff() {
		return nil, actor.Unauthorized("report waste")
	}
	return RestoreEntry(id, productID, *actor.ID(), quantity, reason, notes, unitCost, at, nil, nil, "")
}

// RestoreEntry rebuilds a persisted entry.
func RestoreEntry(
	id, productID, loggedBy kernel.UUID,
	quantity int,
	reason, notes string,
	unitCost kernel.Money,
	createdAt time.Time,
	approved, rejected *Decision,
	rejectionNotes string,
) (*Entry, error) {
	e := &Entry{
		notes:          notes,
		unitCost:       unitCost,
		createdAt:      createdAt,
		approved:       approved,
		rejected:       rejected,
		rejectionNotes: rejectionNotes,
		isConstructed:  true,
	}

	var decisionErr error
	if approved != nil && rejected != nil {
		decisionErr = errs.NewValueIsInvalidErrorWithCause("waste entry", errors.New("both approved and rejected"))
	}

	if err := errors.Join(
		validateID(id, &e.id),
		validateID(productID, &e.productID),
		validateID(loggedBy, &e.loggedBy),
		e.setQuantity(quantity),
		e.setReason(reason),
		decisionErr,
	); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID         { return e.id }
func (e *Entry) ProductID() kernel.UUID  { return e.productID }
func (e *Entry) LoggedBy() kernel.UUID   { return e.loggedBy }
func (e *Entry) Quantity() int           { return e.quantity }
func (e *Entry) Reason() string          { return e.reason }
func (e *Entry) Notes() string           { return e.notes }
func (e *Entry) UnitCost() kernel.Money  { return e.unitCost }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }
func (e *Entry) Approved() *Decision     { return e.approved }
func (e *Entry) Rejected() *Decision     { return e.rejected }
func (e *Entry) RejectionNotes() string  { return e.rejectionNotes }
func (e *Entry) TotalCost() kernel.Money { return e.unitCost.Times(e.quantity) }

func (e *Entry) State() State {
	switch {
	case e.approved != nil:
		return Approved
	case e.rejected != nil:
		return Rejected
	default:
		return Pending
	}
}

// Approve marks the entry approved. The caller books the waste movement in the
// same transaction and must not persist the approval if that movement fails.
func (e *Entry) Approve(actor kernel.Actor, at time.Time) error {
	if err := e.guardDecision(actor); err != nil {
		return err
	}
	e.approved = &Decision{At: at, By: *actor.ID()}
	return nil
}

// Reject marks the entry rejected. Rejection notes are required.
func (e *Entry) Reject(actor kernel.Actor, notes string, at time.Time) error {
	if err := e.guardDecision(actor); err != nil {
		return err
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return errs.NewValueIsRequiredError("rejection notes")
	}
	e.rejected = &Decision{At: at, By: *actor.ID()}
	e.rejectionNotes = notes
	return nil
}

func (e *Entry) guardDecision(actor kernel.Actor) error {
	if !actor.IsAdmin() {
		return actor.Unauthorized("decide waste")
	}
	if e.State() != Pending {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, e.id, e.State())
	}
	return nil
}

func validateID(id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}

func (e *Entry) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("waste quantity", quantity, 1, "unbounded")
	}
	e.quantity = quantity
	return nil
}

func (e *Entry) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("waste reason")
	}
	e.reason = reason
	return nil
}
