package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *inventory.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Product), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*inventory.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *inventory.Product) error {
	return m.Called(ctx, p).Error(0)
}

type MockZoneRepository struct{ mock.Mock }

func (m *MockZoneRepository) ListActive(ctx context.Context) ([]*zone.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*zone.Zone), args.Error(1)
}

func (m *MockZoneRepository) Upsert(ctx context.Context, z *zone.Zone) error {
	return m.Called(ctx, z).Error(0)
}

type MockExchangeRateRepository struct{ mock.Mock }

func (m *MockExchangeRateRepository) Get(ctx context.Context, target currency.Code) (currency.Rate, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(currency.Rate), args.Error(1)
}

func (m *MockExchangeRateRepository) Upsert(ctx context.Context, target currency.Code, rate currency.Rate, at time.Time) error {
	return m.Called(ctx, target, rate, at).Error(0)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *order.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *order.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Payment), args.Error(1)
}

type MockWasteRepository struct{ mock.Mock }

func (m *MockWasteRepository) Add(ctx context.Context, e *waste.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockWasteRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*waste.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*waste.Entry), args.Error(1)
}

func (m *MockWasteRepository) Update(ctx context.Context, e *waste.Entry) error {
	return m.Called(ctx, e).Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, messages ...ports.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}

func (m *MockPublisher) Close() error { return m.Called().Error(0) }

type MockOrderLocker struct{ mock.Mock }

func (m *MockOrderLocker) Acquire(ctx context.Context, id kernel.UUID) (func(), error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

// MockUoW implements every narrow unit of work used by the handlers.
type MockUoW struct {
	mock.Mock

	Orders   *MockOrderRepository
	Products *MockProductRepository
	Zones    *MockZoneRepository
	Rates    *MockExchangeRateRepository
	Payments *MockPaymentRepository
	Waste    *MockWasteRepository
	Outbox   *MockOutboxRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		Orders:   new(MockOrderRepository),
		Products: new(MockProductRepository),
		Zones:    new(MockZoneRepository),
		Rates:    new(MockExchangeRateRepository),
		Payments: new(MockPaymentRepository),
		Waste:    new(MockWasteRepository),
		Outbox:   new(MockOutboxRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository               { return m.Orders }
func (m *MockUoW) ProductRepository() ports.ProductRepository           { return m.Products }
func (m *MockUoW) ZoneRepository() ports.ZoneRepository                 { return m.Zones }
func (m *MockUoW) ExchangeRateRepository() ports.ExchangeRateRepository { return m.Rates }
func (m *MockUoW) PaymentRepository() ports.PaymentRepository           { return m.Payments }
func (m *MockUoW) WasteRepository() ports.WasteRepository               { return m.Waste }
func (m *MockUoW) OutboxRepository() ports.OutboxRepository             { return m.Outbox }

// expectTx expects one transaction that begins and always rolls back, and
// commits when commit is true.
func (m *MockUoW) expectTx(commit bool) {
	m.On("Begin", mock.Anything).Return(nil).Once()
	if commit {
		m.On("Commit", mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

func (m *MockUoW) assertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.Orders.AssertExpectations(t)
	m.Products.AssertExpectations(t)
	m.Zones.AssertExpectations(t)
	m.Rates.AssertExpectations(t)
	m.Payments.AssertExpectations(t)
	m.Waste.AssertExpectations(t)
	m.Outbox.AssertExpectations(t)
}

type uowFactory struct{ uow *MockUoW }

func (f uowFactory) Create() commands.FulfillmentUoW { return f.uow }

type inventoryFactory struct{ uow *MockUoW }

func (f inventoryFactory) Create() commands.InventoryUoW { return f.uow }

type wasteFactory struct{ uow *MockUoW }

func (f wasteFactory) Create() commands.WasteUoW { return f.uow }

type catalogFactory struct{ uow *MockUoW }

func (f catalogFactory) Create() commands.CatalogUoW { return f.uow }

type outboxFactory struct{ uow *MockUoW }

func (f outboxFactory) Create() commands.OutboxUoW { return f.uow }
