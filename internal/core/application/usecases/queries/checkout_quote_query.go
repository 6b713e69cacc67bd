package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCheckoutQuoteQueryIsNotConstructed = errors.New(
	"CheckoutQuoteQuery must be created via NewCheckoutQuoteQuery constructor",
)

// CheckoutQuoteQuery previews the delivery fee and currency conversion of a
// cart without reserving anything.
type CheckoutQuoteQuery struct {
	suburb   string
	postcode string
	subtotal kernel.Money
	currency string
	pickup   bool

	guard guard.ConstructorGuard
}

func NewCheckoutQuoteQuery(suburb, postcode string, subtotal kernel.Money, code string, pickup bool) (CheckoutQuoteQuery, error) {
	if !pickup && zone.NormalizeLocality(suburb) == "" && zone.NormalizeLocality(postcode) == "" {
		return CheckoutQuoteQuery{}, errs.NewValueIsRequiredError("suburb or postcode")
	}
	if code == "" {
		code = string(currency.Base)
	}
	return CheckoutQuoteQuery{
		suburb:   suburb,
		postcode: postcode,
		subtotal: subtotal,
		currency: code,
		pickup:   pickup,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q CheckoutQuoteQuery) Validate() error {
	return q.guard.Validate(ErrCheckoutQuoteQueryIsNotConstructed)
}

// CheckoutQuote shows amounts in the requested currency.
type CheckoutQuote struct {
	ZoneName      string       `json:"zone_name,omitempty"`
	EstimatedDays int          `json:"estimated_days"`
	FreeDelivery  bool         `json:"free_delivery"`
	Currency      string       `json:"currency"`
	ExchangeRate  string       `json:"exchange_rate"`
	Subtotal      kernel.Money `json:"subtotal"`
	DeliveryFee   kernel.Money `json:"delivery_fee"`
	Total         kernel.Money `json:"total"`
}

// CheckoutQuoteQueryHandler runs the same zone resolution and currency lock
// as order creation, against the committed zone and rate tables.
type CheckoutQuoteQueryHandler struct {
	zones       ports.ZoneRepository
	rates       ports.ExchangeRateRepository
	resolver    services.ZoneResolver
	snapshotter services.CurrencySnapshotter
}

// NewCheckoutQuoteQueryHandler takes repositories bound to the plain
// connection, outside any unit of work.
func NewCheckoutQuoteQueryHandler(zones ports.ZoneRepository, rates ports.ExchangeRateRepository) CheckoutQuoteQueryHandler {
	return CheckoutQuoteQueryHandler{
		zones:       zones,
		rates:       rates,
		resolver:    services.NewZoneResolver(),
		snapshotter: services.NewCurrencySnapshotter(),
	}
}

func (h CheckoutQuoteQueryHandler) Handle(ctx context.Context, query CheckoutQuoteQuery) (CheckoutQuote, error) {
	if err := query.Validate(); err != nil {
		return CheckoutQuote{}, err
	}

	snapshot, err := h.snapshotter.Lock(ctx, query.currency, h.rates)
	if err != nil {
		return CheckoutQuote{}, err
	}

	q := zone.PickupQuote()
	if !query.pickup {
		zones, err := h.zones.ListActive(ctx)
		if err != nil {
			return CheckoutQuote{}, err
		}
		if q, err = h.resolver.Resolve(zones, query.suburb, query.postcode, query.subtotal); err != nil {
			return CheckoutQuote{}, err
		}
	}

	subtotal := snapshot.Convert(query.subtotal)
	fee := snapshot.Convert(q.Fee)
	return CheckoutQuote{
		ZoneName:      q.ZoneName,
		EstimatedDays: q.EstimatedDays,
		FreeDelivery:  q.FreeDelivery,
		Currency:      string(snapshot.Code()),
		ExchangeRate:  snapshot.Rate().String(),
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal.Add(fee),
	}, nil
}
