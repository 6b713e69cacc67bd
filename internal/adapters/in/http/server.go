package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/metrics"
)

// CommandHandler is satisfied by the command handlers that return nothing.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler is satisfied by query handlers and commands that return a value.
type ResultHandler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder     ResultHandler[commands.CreateOrderCommand, commands.CreatedOrder]
	CancelOrder     CommandHandler[commands.CancelOrderCommand]
	TransitionOrder CommandHandler[commands.TransitionOrderCommand]
	AssignStaff     CommandHandler[commands.AssignStaffCommand]
	DeliveryIssue   CommandHandler[commands.DeliveryIssueCommand]
	RecordDelivery  CommandHandler[commands.RecordDeliveryCommand]
	RecordPayment   ResultHandler[commands.RecordPaymentCommand, kernel.UUID]
	RefundOrder     CommandHandler[commands.RefundOrderCommand]
	ApplyMovement   ResultHandler[commands.ApplyStockMovementCommand, inventory.LogEntry]
	SubmitWaste     ResultHandler[commands.SubmitWasteCommand, kernel.UUID]
	DecideWaste     CommandHandler[commands.DecideWasteCommand]
	UpsertZone      CommandHandler[commands.UpsertZoneCommand]
	UpsertRate      CommandHandler[commands.UpsertExchangeRateCommand]

	CheckoutQuote  ResultHandler[queries.CheckoutQuoteQuery, queries.CheckoutQuote]
	GetOrder       ResultHandler[queries.GetOrderQuery, queries.OrderView]
	ListOrders     ResultHandler[queries.ListOrdersQuery, []queries.OrderSummary]
	ListDeliveries ResultHandler[queries.ListDeliveriesQuery, []queries.DeliveryView]
	InventoryLogs  ResultHandler[queries.ListInventoryLogsQuery, []queries.InventoryLogView]
	LowStock       ResultHandler[queries.ListLowStockQuery, []queries.LowStockView]
	WasteSummary   ResultHandler[queries.WasteSummaryQuery, queries.WasteSummary]
	WasteEntries   ResultHandler[queries.ListWasteEntriesQuery, []queries.WasteEntryView]
}

// Server implements servers.ServerInterface on top of the application use cases.
type Server struct {
	h       Handlers
	metrics *metrics.Metrics
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(h Handlers, m *metrics.Metrics) *Server {
	return &Server{h: h, metrics: m}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, servers.Envelope{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, servers.Envelope{Success: true, Data: data})
}

// bind decodes and validates the request body.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
