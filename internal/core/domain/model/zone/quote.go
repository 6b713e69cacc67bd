package zone

import "storefront/internal/core/domain/model/kernel"

// Quote is the delivery pricing computed for one checkout. Fee is in AUD.
type Quote struct {
	ZoneID        *kernel.UUID
	ZoneName      string
	Fee           kernel.Money
	FreeDelivery  bool
	EstimatedDays int
	Delivers      bool
}

// PickupQuote is used for pickup orders: no zone, no fee.
func PickupQuote() Quote {
	return Quote{Fee: kernel.Zero}
}
