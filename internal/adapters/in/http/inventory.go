package http

import (
	"time"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/generated/servers"
)

// ApplyStockMovement handles POST /api/v1/products/{id}/movements.
func (s *Server) ApplyStockMovement(c echo.Context, id openapi_types.UUID) error {
	actor, productID, err := actorAndID(c, id)
	if err != nil {
		return err
	}
	var req movementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	typ, err := inventory.ParseMovementType(req.Type)
	if err != nil {
		return err
	}

	cmd, err := commands.NewApplyStockMovementCommand(productID, actor, typ, req.Quantity, req.Reason, req.Reference)
	if err != nil {
		return err
	}
	entry, err := s.h.ApplyMovement.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.StockMovements.WithLabelValues(string(typ)).Inc()
	return ok(c, newStockMovementResponse(entry))
}

// stockMovementResponse is the ledger row written for a manual movement.
// Quantity is the logged amount, so adjustments report the absolute delta.
type stockMovementResponse struct {
	ID          kernel.UUID            `json:"id"`
	ProductID   kernel.UUID            `json:"product_id"`
	Type        inventory.MovementType `json:"type"`
	Quantity    int                    `json:"quantity"`
	StockBefore int                    `json:"stock_before"`
	StockAfter  int                    `json:"stock_after"`
	Reason      string                 `json:"reason"`
	Reference   string                 `json:"reference,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func newStockMovementResponse(e inventory.LogEntry) stockMovementResponse {
	return stockMovementResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		Type:        e.Type,
		Quantity:    e.Quantity,
		StockBefore: e.StockBefore,
		StockAfter:  e.StockAfter,
		Reason:      e.Reason,
		Reference:   e.Reference,
		CreatedAt:   e.CreatedAt,
	}
}

// ListInventoryLogs handles GET /api/v1/products/{id}/inventory-logs.
func (s *Server) ListInventoryLogs(c echo.Context, id openapi_types.UUID, params servers.ListInventoryLogsParams) error {
	actor, productID, err := actorAndID(c, id)
	if err != nil {
		return err
	}

	query, err := queries.NewListInventoryLogsQuery(actor, productID, deref(params.Limit))
	if err != nil {
		return err
	}
	logs, err := s.h.InventoryLogs.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, logs)
}

// ListLowStock handles GET /api/v1/products/low-stock.
func (s *Server) ListLowStock(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListLowStockQuery(actor)
	if err != nil {
		return err
	}
	products, err := s.h.LowStock.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, products)
}
