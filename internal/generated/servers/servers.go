// Package servers contains the echo bindings for the operations in
// api/openapi.yaml: path and query parameter decoding, routing and the
// response envelope.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const BearerAuthScopes = "bearerAuth.Scopes"

// Error is the error part of the response envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Limit  *int    `form:"limit,omitempty"  json:"limit,omitempty"`
	Offset *int    `form:"offset,omitempty" json:"offset,omitempty"`
}

type ListDeliveriesParams struct {
	StaffId *openapi_types.UUID `form:"staff_id,omitempty" json:"staff_id,omitempty"`
	Date    *openapi_types.Date `form:"date,omitempty"     json:"date,omitempty"`
}

type ListInventoryLogsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

type GetWasteSummaryParams struct {
	From *time.Time `form:"from,omitempty" json:"from,omitempty"`
	To   *time.Time `form:"to,omitempty"   json:"to,omitempty"`
}

type ExportWasteParams struct {
	From  *time.Time `form:"from,omitempty"  json:"from,omitempty"`
	To    *time.Time `form:"to,omitempty"    json:"to,omitempty"`
	State *string    `form:"state,omitempty" json:"state,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/v1/checkout/quote)
	QuoteCheckout(ctx echo.Context) error
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /api/v1/orders/{id})
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/cancel)
	CancelOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/transitions)
	TransitionOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/assignment)
	AssignStaff(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/issues)
	ReportIssue(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/issues/resolve)
	ResolveIssue(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/delivery)
	RecordDelivery(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/payments)
	RecordPayment(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/refund)
	RefundOrder(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/deliveries)
	ListDeliveries(ctx echo.Context, params ListDeliveriesParams) error
	// (GET /api/v1/products/low-stock)
	ListLowStock(ctx echo.Context) error
	// (POST /api/v1/products/{id}/movements)
	ApplyStockMovement(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/products/{id}/inventory-logs)
	ListInventoryLogs(ctx echo.Context, id openapi_types.UUID, params ListInventoryLogsParams) error
	// (POST /api/v1/waste)
	SubmitWaste(ctx echo.Context) error
	// (POST /api/v1/waste/{id}/decision)
	DecideWaste(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/waste/summary)
	GetWasteSummary(ctx echo.Context, params GetWasteSummaryParams) error
	// (GET /api/v1/waste/export)
	ExportWaste(ctx echo.Context, params ExportWasteParams) error
	// (PUT /api/v1/zones)
	UpsertZone(ctx echo.Context) error
	// (PUT /api/v1/exchange-rates)
	UpsertExchangeRate(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) QuoteCheckout(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.QuoteCheckout(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params ListOrdersParams
	if err := bindQuery(ctx, "status", &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, "limit", &params.Limit); err != nil {
		return err
	}
	if err := bindQuery(ctx, "offset", &params.Offset); err != nil {
		return err
	}
	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CancelOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.TransitionOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) AssignStaff(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.AssignStaff(ctx, id)
}

func (w *ServerInterfaceWrapper) ReportIssue(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ReportIssue(ctx, id)
}

func (w *ServerInterfaceWrapper) ResolveIssue(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ResolveIssue(ctx, id)
}

func (w *ServerInterfaceWrapper) RecordDelivery(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.RecordDelivery(ctx, id)
}

func (w *ServerInterfaceWrapper) RecordPayment(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.RecordPayment(ctx, id)
}

func (w *ServerInterfaceWrapper) RefundOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.RefundOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) ListDeliveries(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params ListDeliveriesParams
	if err := bindQuery(ctx, "staff_id", &params.StaffId); err != nil {
		return err
	}
	if err := bindQuery(ctx, "date", &params.Date); err != nil {
		return err
	}
	return w.Handler.ListDeliveries(ctx, params)
}

func (w *ServerInterfaceWrapper) ListLowStock(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListLowStock(ctx)
}

func (w *ServerInterfaceWrapper) ApplyStockMovement(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ApplyStockMovement(ctx, id)
}

func (w *ServerInterfaceWrapper) ListInventoryLogs(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})

	var params ListInventoryLogsParams
	if err := bindQuery(ctx, "limit", &params.Limit); err != nil {
		return err
	}
	return w.Handler.ListInventoryLogs(ctx, id, params)
}

func (w *ServerInterfaceWrapper) SubmitWaste(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.SubmitWaste(ctx)
}

func (w *ServerInterfaceWrapper) DecideWaste(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.DecideWaste(ctx, id)
}

func (w *ServerInterfaceWrapper) GetWasteSummary(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params GetWasteSummaryParams
	if err := bindQuery(ctx, "from", &params.From); err != nil {
		return err
	}
	if err := bindQuery(ctx, "to", &params.To); err != nil {
		return err
	}
	return w.Handler.GetWasteSummary(ctx, params)
}

func (w *ServerInterfaceWrapper) ExportWaste(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params ExportWasteParams
	if err := bindQuery(ctx, "from", &params.From); err != nil {
		return err
	}
	if err := bindQuery(ctx, "to", &params.To); err != nil {
		return err
	}
	if err := bindQuery(ctx, "state", &params.State); err != nil {
		return err
	}
	return w.Handler.ExportWaste(ctx, params)
}

func (w *ServerInterfaceWrapper) UpsertZone(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.UpsertZone(ctx)
}

func (w *ServerInterfaceWrapper) UpsertExchangeRate(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.UpsertExchangeRate(ctx)
}

func bindID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

func bindQuery(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/checkout/quote", w.QuoteCheckout)
	router.POST(baseURL+"/orders", w.CreateOrder)
	router.GET(baseURL+"/orders", w.ListOrders)
	router.GET(baseURL+"/orders/:id", w.GetOrder)
	router.POST(baseURL+"/orders/:id/cancel", w.CancelOrder)
	router.POST(baseURL+"/orders/:id/transitions", w.TransitionOrder)
	router.POST(baseURL+"/orders/:id/assignment", w.AssignStaff)
	router.POST(baseURL+"/orders/:id/issues", w.ReportIssue)
	router.POST(baseURL+"/orders/:id/issues/resolve", w.ResolveIssue)
	router.POST(baseURL+"/orders/:id/delivery", w.RecordDelivery)
	router.POST(baseURL+"/orders/:id/payments", w.RecordPayment)
	router.POST(baseURL+"/orders/:id/refund", w.RefundOrder)
	router.GET(baseURL+"/deliveries", w.ListDeliveries)
	router.GET(baseURL+"/products/low-stock", w.ListLowStock)
	router.POST(baseURL+"/products/:id/movements", w.ApplyStockMovement)
	router.GET(baseURL+"/products/:id/inventory-logs", w.ListInventoryLogs)
	router.POST(baseURL+"/waste", w.SubmitWaste)
	router.POST(baseURL+"/waste/:id/decision", w.DecideWaste)
	router.GET(baseURL+"/waste/summary", w.GetWasteSummary)
	router.GET(baseURL+"/waste/export", w.ExportWaste)
	router.PUT(baseURL+"/zones", w.UpsertZone)
	router.PUT(baseURL+"/exchange-rates", w.UpsertExchangeRate)
}
