package kernel

import (
	"errors"
	"fmt"

	"storefront/internal/pkg/errs"
)

// ErrUnauthorizedActor is returned when the acting role may not perform an operation.
var ErrUnauthorizedActor = errors.New("unauthorized actor")

// Role is the authorization role carried by the caller's bearer token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	// RoleSystem is used for transitions driven by payment callbacks and jobs.
	// It is never accepted from a token.
	RoleSystem Role = "system"
)

// ParseRole accepts the three token roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return r, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Actor is the authenticated caller of an operation. The system actor has no id.
type Actor struct {
	id   *UUID
	role Role
}

// NewActor builds a user actor. Use SystemActor for system-driven operations.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{id: &id, role: role}, nil
}

func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

// ID returns nil for the system actor.
func (a Actor) ID() *UUID {
	if a.id == nil {
		return nil
	}
	id := *a.id
	return &id
}

func (a Actor) Role() Role { return a.role }

func (a Actor) IsCustomer() bool { return a.role == RoleCustomer }
func (a Actor) IsAdmin() bool    { return a.role == RoleAdmin }
func (a Actor) IsSystem() bool   { return a.role == RoleSystem }

// IsStaff reports staff or admin; admins can do everything staff can.
func (a Actor) IsStaff() bool {
	return a.role == RoleStaff || a.role == RoleAdmin
}

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(id UUID) bool {
	return a.id != nil && a.id.IsEqual(id)
}

// Validate rejects the zero value.
func (a Actor) Validate() error {
	if a.role == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

// Unauthorized wraps ErrUnauthorizedActor with the attempted action.
func (a Actor) Unauthorized(action string) error {
	return fmt.Errorf("%w: %s may not %s", ErrUnauthorizedActor, a.role, action)
}
