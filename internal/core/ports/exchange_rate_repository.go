package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/currency"
)

// ExchangeRateRepository stores AUD-based rates. Get returns
// errs.ErrObjectNotFound when no rate exists for the target.
type ExchangeRateRepository interface {
	Get(ctx context.Context, target currency.Code) (currency.Rate, error)
	Upsert(ctx context.Context, target currency.Code, rate currency.Rate, at time.Time) error
}
