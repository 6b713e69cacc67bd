package ports

import (
	"context"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
)

// ProductRepository persists the stock projection and the inventory log.
// It is the only writer of the products.stock column.
type ProductRepository interface {
	Add(ctx context.Context, p *inventory.Product) error

	Get(ctx context.Context, id kernel.UUID) (*inventory.Product, error)

	// GetForUpdate locks the products in ascending id order. Every id must exist.
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*inventory.Product, error)

	// Save writes stock with a version compare-and-swap and appends pulled log entries.
	Save(ctx context.Context, p *inventory.Product) error
}
