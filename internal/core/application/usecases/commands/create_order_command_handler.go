package commands

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/core/domain/services"
)

var tracer = otel.Tracer("storefront/commands")

// CreatedOrder identifies an order accepted at checkout.
type CreatedOrder struct {
	ID     kernel.UUID
	Number string
	Total  kernel.Money
}

// CreateOrderCommandHandler runs checkout as a single transaction: lock the
// currency, resolve the delivery zone, reserve stock and persist the order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, RetryPolicy{})
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	fmt.Printf("order %s placed", created.Number)
type CreateOrderCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	retry       RetryPolicy
	resolver    services.ZoneResolver
	snapshotter services.CurrencySnapshotter
	ledger      services.InventoryLedger
}

func NewCreateOrderCommandHandler(uowFactory FulfillmentUoWFactory, retry RetryPolicy) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		retry:       retry,
		resolver:    services.NewZoneResolver(),
		snapshotter: services.NewCurrencySnapshotter(),
		ledger:      services.NewInventoryLedger(),
	}
}

// Handle places the order. Nothing is persisted when any step fails.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreatedOrder, error) {
	if err := cmd.Validate(); err != nil {
		return CreatedOrder{}, err
	}

	ctx, span := tracer.Start(ctx, "CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.method", string(cmd.Method())),
		attribute.String("order.currency", cmd.Details().Currency),
	)

	number := order.GenerateNumber(now())
	var created CreatedOrder
	err := h.retry.Do(ctx, func(ctx context.Context) error {
		o, err := h.place(ctx, cmd, number)
		if err != nil {
			return err
		}
		created = CreatedOrder{ID: o.ID(), Number: o.Number(), Total: o.Total()}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CreatedOrder{}, err
	}
	return created, nil
}

func (h *CreateOrderCommandHandler) place(ctx context.Context, cmd CreateOrderCommand, number string) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	snapshot, err := h.snapshotter.Lock(ctx, cmd.Details().Currency, uow.ExchangeRateRepository())
	if err != nil {
		return nil, err
	}

	quote := zone.PickupQuote()
	if cmd.Method() == order.MethodDelivery {
		zones, err := uow.ZoneRepository().ListActive(ctx)
		if err != nil {
			return nil, err
		}
		quote, err = h.resolver.Resolve(zones, cmd.Address().Suburb(), cmd.Address().Postcode(), cmd.Subtotal())
		if err != nil {
			return nil, err
		}
	}

	quantities := cmd.Quantities()
	productRepo := uow.ProductRepository()
	products, err := productRepo.GetForUpdate(ctx, kernel.SortUUIDs(mapKeys(quantities)))
	if err != nil {
		return nil, err
	}

	at := now()
	requests, err := services.Deductions(quantities, "order placed", number, cmd.Customer().ID())
	if err != nil {
		return nil, err
	}
	if _, err = h.ledger.Apply(products, requests, at); err != nil {
		return nil, err
	}

	o, err := order.Place(order.Draft{
		ID:        cmd.OrderID(),
		Number:    number,
		Customer:  cmd.Customer(),
		Items:     itemInputs(cmd.Lines(), products),
		Method:    cmd.Method(),
		Address:   cmd.Address(),
		Quote:     quote,
		Currency:  snapshot,
		Discount:  cmd.Details().Discount,
		PromoCode: cmd.Details().PromoCode,
		Schedule:  cmd.Details().Schedule,
		PlacedAt:  at,
	})
	if err != nil {
		return nil, err
	}

	if err = saveProducts(ctx, productRepo, products); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func itemInputs(lines []CartLine, products []*inventory.Product) []order.ItemInput {
	names := make(map[kernel.UUID]string, len(products))
	for _, p := range products {
		names[p.ID()] = p.Name()
	}

	items := make([]order.ItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.ItemInput{
			ProductID: l.ProductID,
			Name:      names[l.ProductID],
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return items
}

func mapKeys(m map[kernel.UUID]int) []kernel.UUID {
	keys := make([]kernel.UUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
