package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDecideWasteCommandIsNotConstructed = errors.New(
	"DecideWasteCommand must be created via NewApproveWasteCommand or NewRejectWasteCommand",
)

// DecideWasteCommand approves or rejects a pending waste entry.
type DecideWasteCommand struct { //nolint:recvcheck //using for validation
	entryID kernel.UUID
	actor   kernel.Actor
	approve bool
	notes   string

	guard guard.ConstructorGuard
}

func NewApproveWasteCommand(entryID kernel.UUID, actor kernel.Actor) (DecideWasteCommand, error) {
	return newDecideWasteCommand(entryID, actor, true, "")
}

func NewRejectWasteCommand(entryID kernel.UUID, actor kernel.Actor, notes string) (DecideWasteCommand, error) {
	return newDecideWasteCommand(entryID, actor, false, notes)
}

func newDecideWasteCommand(entryID kernel.UUID, actor kernel.Actor, approve bool, notes string) (DecideWasteCommand, error) {
	if err := errors.Join(entryID.Validate(), actor.Validate()); err != nil {
		return DecideWasteCommand{}, err
	}
	return DecideWasteCommand{
		entryID: entryID,
		actor:   actor,
		approve: approve,
		notes:   strings.TrimSpace(notes),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DecideWasteCommand) Validate() error {
	return c.guard.Validate(ErrDecideWasteCommandIsNotConstructed)
}

func (c DecideWasteCommand) EntryID() kernel.UUID { return c.entryID }
func (c DecideWasteCommand) Actor() kernel.Actor  { return c.actor }
func (c DecideWasteCommand) IsApproval() bool     { return c.approve }
func (c DecideWasteCommand) Notes() string        { return c.notes }
