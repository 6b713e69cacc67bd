package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/pkg/guard"
)

var ErrUpsertZoneCommandIsNotConstructed = errors.New(
	"UpsertZoneCommand must be created via NewUpsertZoneCommand constructor",
)

// UpsertZoneCommand creates or replaces a delivery zone by name.
type UpsertZoneCommand struct { //nolint:recvcheck //using for validation
	zone *zone.Zone

	guard guard.ConstructorGuard
}

func NewUpsertZoneCommand(
	actor kernel.Actor,
	name string,
	localities []string,
	fee kernel.Money,
	threshold *kernel.Money,
	estimatedDays int,
	active bool,
) (UpsertZoneCommand, error) {
	if !actor.IsAdmin() {
		return UpsertZoneCommand{}, actor.Unauthorized("manage delivery zones")
	}
	z, err := zone.NewZone(kernel.NewUUID(), name, localities, fee, threshold, estimatedDays, active)
	if err != nil {
		return UpsertZoneCommand{}, err
	}
	return UpsertZoneCommand{zone: z, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpsertZoneCommandIsNotConstructed)
}

func (c UpsertZoneCommand) Zone() *zone.Zone { return c.zone }
