// Package ports defines the interfaces between the storefront core and its adapters:
// repositories, the unit of work, the per-order lock and the message publisher.
package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its line items, first history row and events.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the mutable order columns guarded by the version the order was
	// loaded at, then appends pulled history rows, assignment log rows and the
	// delivery proof. A stale version returns errs.ErrConcurrencyConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order with SELECT ... FOR UPDATE.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListPendingBefore returns ids of orders still pending that were created before
	// cutoff, oldest first.
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]kernel.UUID, error)
}
