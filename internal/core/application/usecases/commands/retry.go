package commands

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// DefaultRetryAttempts bounds how often a unit of work is replayed after losing
// a version compare-and-swap.
const DefaultRetryAttempts = 3

// RetryPolicy replays a whole unit of work on errs.ErrConcurrencyConflict.
// Any other error, and the last conflict, is returned unchanged.
type RetryPolicy struct {
	Attempts int
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	var err error
	for range attempts {
		err = fn(ctx)
		if !errors.Is(err, errs.ErrConcurrencyConflict) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

var now = func() time.Time {
	return time.Now().UTC()
}

// lockOrder takes the per-order lock when a locker is configured.
func lockOrder(ctx context.Context, locker ports.OrderLocker, id kernel.UUID) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}
	return locker.Acquire(ctx, id)
}
