package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

type PaymentRepository interface {
	Add(ctx context.Context, p *order.Payment) error
	Update(ctx context.Context, p *order.Payment) error
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Payment, error)
}
