package inventory

import "storefront/internal/core/domain/model/kernel"

type AlertKind string

const (
	LowStock   AlertKind = "low_stock"
	OutOfStock AlertKind = "out_of_stock"
)

// StockAlert is published on the inventory alert feed.
type StockAlert struct {
	Kind        AlertKind   `json:"kind"`
	ProductID   kernel.UUID `json:"product_id"`
	ProductName string      `json:"product_name"`
	Stock       int         `json:"stock"`
	MinStock    *int        `json:"min_stock,omitempty"`
}
