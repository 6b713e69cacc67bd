package services

import (
	"cmp"
	"fmt"
	"slices"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
)

// ZoneResolver maps a delivery address to a zone and prices delivery.
//
// Business rules:
//   - only active zones are considered
//   - the suburb is matched first, then the postcode, both exactly and case-insensitively
//   - when several zones list the locality the one with the lowest name wins, so the
//     result never depends on storage order
//   - fee is zero when the AUD subtotal reaches the zone threshold
//
// The resolver is pure; it never reads or writes storage.
type ZoneResolver struct{}

// NewZoneResolver returns the stateless resolver.
func NewZoneResolver() ZoneResolver {
	return ZoneResolver{}
}

// Resolve returns the delivery quote or zone.ErrZoneNotServiced.
//
// Example:
//
//	zones, _ := repo.ListActive(ctx)
//	quote, err := resolver.Resolve(zones, "Newtown", "2042", kernel.MustMoney("36.00"))
//	if errors.Is(err, zone.ErrZoneNotServiced) {
//	    // checkout must not continue to payment
//	}
//	fmt.Println(quote.ZoneName, quote.Fee, quote.EstimatedDays)
func (ZoneResolver) Resolve(zones []*zone.Zone, suburb, postcode string, subtotal kernel.Money) (zone.Quote, error) {
	ordered := slices.Clone(zones)
	slices.SortFunc(ordered, func(a, b *zone.Zone) int {
		return cmp.Or(cmp.Compare(a.Name(), b.Name()), a.ID().Compare(b.ID()))
	})

	for _, locality := range []string{suburb, postcode} {
		if zone.NormalizeLocality(locality) == "" {
			continue
		}
		for _, z := range ordered {
			if z.Covers(locality) {
				return z.Quote(subtotal), nil
			}
		}
	}
	return zone.Quote{}, fmt.Errorf("%w: %s %s", zone.ErrZoneNotServiced, suburb, postcode)
}
