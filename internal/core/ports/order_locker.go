package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
)

// OrderLocker serialises commands on a single order across processes.
// Acquire returns errs.ErrConcurrencyConflict when the lock stays taken.
type OrderLocker interface {
	Acquire(ctx context.Context, orderID kernel.UUID) (release func(), err error)
}
