// Package zone models delivery zones: named groups of suburbs and postcodes
// sharing a delivery fee, an optional free-delivery threshold and an ETA.
//
// Zones are looked up by exact, case-insensitive locality match. Orders copy the
// quote they were given, so later zone edits never change a placed order.
package zone

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone or RestoreZone")

	// ErrZoneNotServiced is returned when no active zone lists the locality.
	ErrZoneNotServiced = errors.New("zone not serviced")
)

// Zone is a delivery zone aggregate.
type Zone struct {
	id            kernel.UUID
	name          string
	localities    []string
	fee           kernel.Money
	threshold     *kernel.Money
	estimatedDays int
	active        bool

	isConstructed bool
}

// NewZone validates and builds a zone. Localities are normalised and de-duplicated;
// a nil threshold means delivery is never free.
func NewZone(
	id kernel.UUID,
	name string,
	localities []string,
	fee kernel.Money,
	threshold *kernel.Money,
	estimatedDays int,
	active bool,
) (*Zone, error) {
	z := &Zone{
		fee:           fee,
		threshold:     threshold,
		active:        active,
		isConstructed: true,
	}

	if err := errors.Join(
		z.setID(id),
		z.setName(name),
		z.setLocalities(localities),
		z.setEstimatedDays(estimatedDays),
	); err != nil {
		return nil, err
	}
	return z, nil
}

// RestoreZone rebuilds a persisted zone.
func RestoreZone(
	id kernel.UUID,
	name string,
	localities []string,
	fee kernel.Money,
	threshold *kernel.Money,
	estimatedDays int,
	active bool,
) (*Zone, error) {
	return NewZone(id, name, localities, fee, threshold, estimatedDays, active)
}

func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

func (z *Zone) ID() kernel.UUID   { return z.id }
func (z *Zone) Name() string      { return z.name }
func (z *Zone) Fee() kernel.Money { return z.fee }
func (z *Zone) EstimatedDays() int {
	return z.estimatedDays
}
func (z *Zone) IsActive() bool { return z.active }

// Localities returns the normalised suburb and postcode set.
func (z *Zone) Localities() []string {
	return slices.Clone(z.localities)
}

// FreeDeliveryThreshold returns nil when delivery is never free.
func (z *Zone) FreeDeliveryThreshold() *kernel.Money {
	if z.threshold == nil {
		return nil
	}
	t := *z.threshold
	return &t
}

// Covers reports whether the zone is active and lists the locality.
func (z *Zone) Covers(locality string) bool {
	key := NormalizeLocality(locality)
	if !z.active || key == "" {
		return false
	}
	_, found := slices.BinarySearch(z.localities, key)
	return found
}

// Quote prices delivery for an AUD subtotal. The subtotal is compared to the
// threshold inclusively.
func (z *Zone) Quote(subtotal kernel.Money) Quote {
	free := z.threshold != nil && subtotal.GreaterThanOrEqual(*z.threshold)
	fee := z.fee
	if free {
		fee = kernel.Zero
	}
	id := z.id
	return Quote{
		ZoneID:        &id,
		ZoneName:      z.name,
		Fee:           fee,
		FreeDelivery:  free,
		EstimatedDays: z.estimatedDays,
		Delivers:      true,
	}
}

// NormalizeLocality lower-cases, trims and collapses inner whitespace.
func NormalizeLocality(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = id
	return nil
}

func (z *Zone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("zone name")
	}
	z.name = name
	return nil
}

func (z *Zone) setLocalities(localities []string) error {
	normalized := make([]string, 0, len(localities))
	for _, l := range localities {
		if key := NormalizeLocality(l); key != "" {
			normalized = append(normalized, key)
		}
	}
	if len(normalized) == 0 {
		return errs.NewValueIsRequiredError("zone suburbs")
	}
	slices.Sort(normalized)
	z.localities = slices.Compact(normalized)
	return nil
}

func (z *Zone) setEstimatedDays(days int) error {
	if days < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimated days", fmt.Errorf("%d is negative", days))
	}
	z.estimatedDays = days
	return nil
}
