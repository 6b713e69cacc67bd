package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/pkg/errs"
)

// RateSource reads the current AUD rate for a currency.
// A missing rate is reported as errs.ErrObjectNotFound.
type RateSource interface {
	Get(ctx context.Context, target currency.Code) (currency.Rate, error)
}

// CurrencySnapshotter locks the exchange rate for a new order. It runs before any
// inventory work so an unsupported currency rejects checkout cleanly.
type CurrencySnapshotter struct{}

func NewCurrencySnapshotter() CurrencySnapshotter {
	return CurrencySnapshotter{}
}

// Lock returns rate 1 for AUD without a lookup, otherwise the stored rate.
//
// Returns:
//   - the snapshot to copy onto the order
//   - currency.ErrUnsupportedCurrency for unknown codes and for codes with no
//     stored rate
//   - any other error from rates unchanged
func (CurrencySnapshotter) Lock(ctx context.Context, code string, rates RateSource) (currency.Snapshot, error) {
	target, err := currency.ParseCode(code)
	if err != nil {
		return currency.Snapshot{}, err
	}
	if target == currency.Base {
		return currency.BaseSnapshot(), nil
	}

	rate, err := rates.Get(ctx, target)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return currency.Snapshot{}, fmt.Errorf("%w: no rate for %s", currency.ErrUnsupportedCurrency, target)
	}
	if err != nil {
		return currency.Snapshot{}, err
	}
	return currency.NewSnapshot(target, rate)
}
