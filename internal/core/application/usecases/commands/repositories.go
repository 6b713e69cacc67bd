// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"storefront/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest set of repositories it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	WasteRepoFactory interface {
		WasteRepository() ports.WasteRepository
	}

	ZoneRepoFactory interface {
		ZoneRepository() ports.ZoneRepository
	}

	ExchangeRateRepoFactory interface {
		ExchangeRateRepository() ports.ExchangeRateRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// FulfillmentUoW spans everything an order command can touch: the order,
	// the stock it reserved, its payments and the checkout lookup tables.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   products, err := uow.ProductRepository().GetForUpdate(ctx, ids)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		ZoneRepoFactory
		ExchangeRateRepoFactory
		PaymentRepoFactory
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// InventoryUoW is used by manual stock movements.
	InventoryUoW interface {
		TxManager
		ProductRepoFactory
	}

	InventoryUoWFactory interface {
		Create() InventoryUoW
	}

	// WasteUoW is used by the waste workflow; approval books a stock movement.
	WasteUoW interface {
		TxManager
		WasteRepoFactory
		ProductRepoFactory
	}

	WasteUoWFactory interface {
		Create() WasteUoW
	}

	// CatalogUoW maintains the zone and exchange rate lookup tables.
	CatalogUoW interface {
		TxManager
		ZoneRepoFactory
		ExchangeRateRepoFactory
	}

	CatalogUoWFactory interface {
		Create() CatalogUoW
	}

	// OutboxUoW is used by the outbox relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
