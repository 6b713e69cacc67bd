package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories returned after Begin share its transaction. Commit writes the
// events raised by every tracked aggregate to the outbox before committing.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ProductRepository() ProductRepository
	WasteRepository() WasteRepository
	ZoneRepository() ZoneRepository
	ExchangeRateRepository() ExchangeRateRepository
	PaymentRepository() PaymentRepository
	OutboxRepository() OutboxRepository
}
