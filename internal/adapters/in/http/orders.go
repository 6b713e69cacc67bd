package http

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/generated/servers"
)

type orderStatusResponse struct {
	ID     kernel.UUID `json:"id"`
	Status string      `json:"status"`
}

// QuoteCheckout handles POST /api/v1/checkout/quote.
func (s *Server) QuoteCheckout(c echo.Context) error {
	var req quoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	subtotal, err := parseMoney("subtotal", req.Subtotal)
	if err != nil {
		return err
	}

	query, err := queries.NewCheckoutQuoteQuery(req.Suburb, req.Postcode, subtotal, req.Currency, req.Pickup)
	if err != nil {
		return err
	}
	quote, err := s.h.CheckoutQuote.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, quote)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req newOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := newCreateOrderCommand(actor, req)
	if err != nil {
		return err
	}
	placed, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.OrdersPlaced.Inc()
	return created(c, map[string]any{
		"id":     placed.ID,
		"number": placed.Number,
		"total":  placed.Total,
	})
}

func newCreateOrderCommand(actor kernel.Actor, req newOrderRequest) (commands.CreateOrderCommand, error) {
	method, err := order.ParseMethod(req.Method)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]commands.CartLine, 0, len(req.Items))
	var errList []error
	for _, item := range req.Items {
		id, idErr := toKernelID(item.ProductID)
		price, priceErr := parseMoney("unit_price", item.UnitPrice)
		if err := errors.Join(idErr, priceErr); err != nil {
			errList = append(errList, err)
			continue
		}
		lines = append(lines, commands.CartLine{ProductID: id, Quantity: item.Quantity, UnitPrice: price})
	}

	var address kernel.Address
	if req.Address != nil {
		a := req.Address
		address, err = kernel.NewAddress(a.Street, a.Suburb, a.Postcode, a.Phone)
		errList = append(errList, err)
	}

	discount := kernel.Zero
	if req.Discount != "" {
		discount, err = parseMoney("discount", req.Discount)
		errList = append(errList, err)
	}
	date, err := parseDate("scheduled_date", req.ScheduledDate)
	errList = append(errList, err)

	if err := errors.Join(errList...); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(actor, lines, method, address, commands.CheckoutDetails{
		Currency:  req.Currency,
		Discount:  discount,
		PromoCode: req.PromoCode,
		Schedule:  order.Schedule{Date: date, TimeSlot: req.TimeSlot},
	})
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context, params servers.ListOrdersParams) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var status *order.Status
	if params.Status != nil {
		st, err := order.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		status = &st
	}

	query, err := queries.NewListOrdersQuery(actor, status, deref(params.Limit), deref(params.Offset))
	if err != nil {
		return err
	}
	list, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, list)
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, view)
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel.
func (s *Server) CancelOrder(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req reasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor, req.Reason)
	if err != nil {
		return err
	}
	if err := s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.OrderTransitions.WithLabelValues(order.Cancelled.String()).Inc()
	return ok(c, orderStatusResponse{ID: orderID, Status: order.Cancelled.String()})
}

// TransitionOrder handles POST /api/v1/orders/{id}/transitions.
func (s *Server) TransitionOrder(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor, req.Note)
	if err != nil {
		return err
	}
	if err := s.h.TransitionOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.OrderTransitions.WithLabelValues(target.String()).Inc()
	return ok(c, orderStatusResponse{ID: orderID, Status: target.String()})
}

// AssignStaff handles POST /api/v1/orders/{id}/assignment.
func (s *Server) AssignStaff(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req assignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	staffID, err := toKernelID(req.StaffID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignStaffCommand(orderID, staffID, actor, req.Reason)
	if err != nil {
		return err
	}
	if err := s.h.AssignStaff.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, map[string]any{"id": orderID, "assigned_staff_id": staffID})
}

// ReportIssue handles POST /api/v1/orders/{id}/issues.
func (s *Server) ReportIssue(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req issueRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewReportDeliveryIssueCommand(orderID, actor, req.Report)
	if err != nil {
		return err
	}
	if err := s.h.DeliveryIssue.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, map[string]any{"id": orderID, "has_open_issue": true})
}

// ResolveIssue handles POST /api/v1/orders/{id}/issues/resolve.
func (s *Server) ResolveIssue(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req resolutionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewResolveDeliveryIssueCommand(orderID, actor, req.Resolution)
	if err != nil {
		return err
	}
	if err := s.h.DeliveryIssue.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, map[string]any{"id": orderID, "has_open_issue": false})
}

// RecordDelivery handles POST /api/v1/orders/{id}/delivery.
func (s *Server) RecordDelivery(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req deliveryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRecordDeliveryCommand(orderID, actor, commands.DeliveryEvidence{
		SignatureKey:  req.SignatureKey,
		PhotoKey:      req.PhotoKey,
		RecipientName: req.RecipientName,
		LeftAtDoor:    req.LeftAtDoor,
	})
	if err != nil {
		return err
	}
	if err := s.h.RecordDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.OrderTransitions.WithLabelValues(order.Delivered.String()).Inc()
	return ok(c, orderStatusResponse{ID: orderID, Status: order.Delivered.String()})
}

// RecordPayment handles POST /api/v1/orders/{id}/payments. It is called by the
// gateway integration, which authenticates with an admin token.
func (s *Server) RecordPayment(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return actor.Unauthorized("record payments")
	}
	var req paymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordPaymentCommand(orderID, commands.GatewayResult{
		Gateway:       order.Gateway(req.Gateway),
		TransactionID: req.TransactionID,
		Amount:        amount,
		Currency:      req.Currency,
		Status:        order.PaymentStatus(req.Status),
		Response:      req.Response,
	})
	if err != nil {
		return err
	}
	paymentID, err := s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return created(c, map[string]any{"id": paymentID, "order_id": orderID, "status": req.Status})
}

// RefundOrder handles POST /api/v1/orders/{id}/refund.
func (s *Server) RefundOrder(c echo.Context, id openapi_types.UUID) error {
	actor, orderID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req reasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRefundOrderCommand(orderID, actor, req.Reason)
	if err != nil {
		return err
	}
	if err := s.h.RefundOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, map[string]any{"id": orderID, "refunded": true})
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(c echo.Context, params servers.ListDeliveriesParams) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var staffID *kernel.UUID
	if params.StaffId != nil {
		id, err := toKernelID(*params.StaffId)
		if err != nil {
			return err
		}
		staffID = &id
	}
	var date *time.Time
	if params.Date != nil {
		date = &params.Date.Time
	}

	query, err := queries.NewListDeliveriesQuery(actor, staffID, date)
	if err != nil {
		return err
	}
	list, err := s.h.ListDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, list)
}

func actorAndID(c echo.Context, id openapi_types.UUID) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	kid, err := toKernelID(id)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	return actor, kid, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
