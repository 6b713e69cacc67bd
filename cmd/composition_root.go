package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/broker"
	"storefront/internal/adapters/out/locks"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/raterepo"
	"storefront/internal/adapters/out/postgres/zonerepo"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/pkg/metrics"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	locker     ports.OrderLocker
	publisher  ports.MessagePublisher
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	logger     *zap.Logger
	retry      commands.RetryPolicy
}

// NewCompositionRoot wires the adapters. A nil redis client keeps the order
// lock in process, which is only safe with a single replica.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, rdb redis.UniversalClient, logger *zap.Logger) (*CompositionRoot, error) {
	publisher, err := broker.NewPublisher(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	var locker ports.OrderLocker
	if rdb != nil {
		locker = locks.NewRedisOrderLocker(rdb, cfg.LockTTL, cfg.LockWait)
	} else {
		logger.Warn("REDIS_ADDR not set, order locks are process local")
		locker = locks.NewLocalOrderLocker()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		locker:     locker,
		publisher:  publisher,
		registry:   registry,
		metrics:    metrics.New(registry, cfg.MetricsNamespace),
		logger:     logger,
		retry:      commands.RetryPolicy{Attempts: cfg.RetryAttempts},
	}, nil
}

// Close releases the broker connection.
func (c *CompositionRoot) Close() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) fulfillment() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.New()
	})
}

func (c *CompositionRoot) inventory() commands.InventoryUoWFactory {
	return FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.New()
	})
}

func (c *CompositionRoot) waste() commands.WasteUoWFactory {
	return FuncWasteUoWFactory(func() commands.WasteUoW {
		return c.uowFactory.New()
	})
}

func (c *CompositionRoot) catalog() commands.CatalogUoWFactory {
	return FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.New()
	})
}

func (c *CompositionRoot) outbox() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.New()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.fulfillment(), c.retry)
	return &h
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() *commands.CancelOrderCommandHandler {
	h := commands.NewCancelOrderCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() *commands.TransitionOrderCommandHandler {
	h := commands.NewTransitionOrderCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateAssignStaffCommandHandler() *commands.AssignStaffCommandHandler {
	h := commands.NewAssignStaffCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateDeliveryIssueCommandHandler() *commands.DeliveryIssueCommandHandler {
	h := commands.NewDeliveryIssueCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateRecordDeliveryCommandHandler() *commands.RecordDeliveryCommandHandler {
	h := commands.NewRecordDeliveryCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() *commands.RecordPaymentCommandHandler {
	h := commands.NewRecordPaymentCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateRefundOrderCommandHandler() *commands.RefundOrderCommandHandler {
	h := commands.NewRefundOrderCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateExpirePendingOrdersCommandHandler() *commands.ExpirePendingOrdersCommandHandler {
	h := commands.NewExpirePendingOrdersCommandHandler(c.fulfillment(), c.locker, c.retry)
	return &h
}

func (c *CompositionRoot) CreateApplyStockMovementCommandHandler() *commands.ApplyStockMovementCommandHandler {
	h := commands.NewApplyStockMovementCommandHandler(c.inventory(), c.retry)
	return &h
}

func (c *CompositionRoot) CreateSubmitWasteCommandHandler() *commands.SubmitWasteCommandHandler {
	h := commands.NewSubmitWasteCommandHandler(c.waste())
	return &h
}

func (c *CompositionRoot) CreateDecideWasteCommandHandler() *commands.DecideWasteCommandHandler {
	h := commands.NewDecideWasteCommandHandler(c.waste(), c.retry)
	return &h
}

func (c *CompositionRoot) CreateUpsertZoneCommandHandler() *commands.UpsertZoneCommandHandler {
	h := commands.NewUpsertZoneCommandHandler(c.catalog())
	return &h
}

func (c *CompositionRoot) CreateUpsertExchangeRateCommandHandler() *commands.UpsertExchangeRateCommandHandler {
	h := commands.NewUpsertExchangeRateCommandHandler(c.catalog())
	return &h
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	h := commands.NewRelayOutboxCommandHandler(c.outbox(), c.publisher)
	return &h
}

// Handlers gathers every use case served over HTTP.
func (c *CompositionRoot) Handlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		TransitionOrder: c.CreateTransitionOrderCommandHandler(),
		AssignStaff:     c.CreateAssignStaffCommandHandler(),
		DeliveryIssue:   c.CreateDeliveryIssueCommandHandler(),
		RecordDelivery:  c.CreateRecordDeliveryCommandHandler(),
		RecordPayment:   c.CreateRecordPaymentCommandHandler(),
		RefundOrder:     c.CreateRefundOrderCommandHandler(),
		ApplyMovement:   c.CreateApplyStockMovementCommandHandler(),
		SubmitWaste:     c.CreateSubmitWasteCommandHandler(),
		DecideWaste:     c.CreateDecideWasteCommandHandler(),
		UpsertZone:      c.CreateUpsertZoneCommandHandler(),
		UpsertRate:      c.CreateUpsertExchangeRateCommandHandler(),

		CheckoutQuote:  queries.NewCheckoutQuoteQueryHandler(zonerepo.NewGormZoneRepository(c.gormDB), raterepo.NewGormExchangeRateRepository(c.gormDB)),
		GetOrder:       queries.NewGetOrderQueryHandler(c.gormDB),
		ListOrders:     queries.NewListOrdersQueryHandler(c.gormDB),
		ListDeliveries: queries.NewListDeliveriesQueryHandler(c.gormDB),
		InventoryLogs:  queries.NewListInventoryLogsQueryHandler(c.gormDB),
		LowStock:       queries.NewListLowStockQueryHandler(c.gormDB),
		WasteSummary:   queries.NewWasteSummaryQueryHandler(c.gormDB),
		WasteEntries:   queries.NewListWasteEntriesQueryHandler(c.gormDB),
	}
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return httpadapter.NewRouter(httpadapter.NewServer(c.Handlers(), c.metrics), httpadapter.RouterConfig{
		Logger:    c.logger,
		Metrics:   c.metrics,
		Gatherer:  c.registry,
		JWTSecret: c.cfg.JWTSecret,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewOutboxRelayJob(
			c.CreateRelayOutboxCommandHandler(),
			c.cfg.OutboxSchedule,
			c.cfg.OutboxBatchSize,
			c.metrics,
			c.logger,
		),
		jobs.NewOrderExpiryJob(
			c.CreateExpirePendingOrdersCommandHandler(),
			c.cfg.ExpirySchedule,
			c.cfg.PendingOrderTTL,
			c.cfg.ExpiryBatchSize,
			c.metrics,
			c.logger,
		),
	)
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncWasteUoWFactory func() commands.WasteUoW

func (f FuncWasteUoWFactory) Create() commands.WasteUoW {
	return f()
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
