package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var (
	ErrListInventoryLogsQueryIsNotConstructed = errors.New(
		"ListInventoryLogsQuery must be created via NewListInventoryLogsQuery constructor",
	)
	ErrListLowStockQueryIsNotConstructed = errors.New(
		"ListLowStockQuery must be created via NewListLowStockQuery constructor",
	)
)

// ListInventoryLogsQuery returns the movement history of one product, newest first.
type ListInventoryLogsQuery struct {
	productID kernel.UUID
	limit     int

	guard guard.ConstructorGuard
}

func NewListInventoryLogsQuery(actor kernel.Actor, productID kernel.UUID, limit int) (ListInventoryLogsQuery, error) {
	if !actor.IsStaff() {
		return ListInventoryLogsQuery{}, actor.Unauthorized("read inventory logs")
	}
	if err := productID.Validate(); err != nil {
		return ListInventoryLogsQuery{}, err
	}
	return ListInventoryLogsQuery{productID: productID, limit: clampLimit(limit), guard: guard.NewConstructorGuard()}, nil
}

func (q ListInventoryLogsQuery) Validate() error {
	return q.guard.Validate(ErrListInventoryLogsQueryIsNotConstructed)
}

type InventoryLogView struct {
	ID          kernel.UUID  `json:"id"`
	Type        string       `json:"type"`
	Quantity    int          `json:"quantity"`
	StockBefore int          `json:"stock_before"`
	StockAfter  int          `json:"stock_after"`
	Reason      string       `json:"reason,omitempty"`
	Reference   string       `json:"reference,omitempty"`
	ActorID     *kernel.UUID `json:"actor_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ListInventoryLogsQueryHandler struct {
	db *gorm.DB
}

func NewListInventoryLogsQueryHandler(db *gorm.DB) ListInventoryLogsQueryHandler {
	return ListInventoryLogsQueryHandler{db: db}
}

func (h ListInventoryLogsQueryHandler) Handle(ctx context.Context, query ListInventoryLogsQuery) ([]InventoryLogView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, type, quantity, stock_before, stock_after, reason, reference, actor_id, created_at
		FROM inventory_logs
		WHERE product_id = ?
		ORDER BY created_at DESC, seq DESC
		LIMIT ?
	`, query.productID.Bytes(), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]InventoryLogView, 0)
	for rows.Next() {
		var (
			v     InventoryLogView
			id    uuid.UUID
			actor uuid.NullUUID
		)
		if err = rows.Scan(&id, &v.Type, &v.Quantity, &v.StockBefore, &v.StockAfter,
			&v.Reason, &v.Reference, &actor, &v.CreatedAt); err != nil {
			return nil, err
		}
		if v.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if v.ActorID, err = nullableUUID(actor); err != nil {
			return nil, err
		}
		v.CreatedAt = v.CreatedAt.UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListLowStockQuery returns products at or below their min_stock threshold.
// Products without a threshold are never low.
type ListLowStockQuery struct {
	guard guard.ConstructorGuard
}

func NewListLowStockQuery(actor kernel.Actor) (ListLowStockQuery, error) {
	if !actor.IsStaff() {
		return ListLowStockQuery{}, actor.Unauthorized("read stock levels")
	}
	return ListLowStockQuery{guard: guard.NewConstructorGuard()}, nil
}

func (q ListLowStockQuery) Validate() error {
	return q.guard.Validate(ErrListLowStockQueryIsNotConstructed)
}

type LowStockView struct {
	ProductID kernel.UUID `json:"product_id"`
	Name      string      `json:"name"`
	Stock     int         `json:"stock"`
	MinStock  int         `json:"min_stock"`
}

type ListLowStockQueryHandler struct {
	db *gorm.DB
}

func NewListLowStockQueryHandler(db *gorm.DB) ListLowStockQueryHandler {
	return ListLowStockQueryHandler{db: db}
}

func (h ListLowStockQueryHandler) Handle(ctx context.Context, query ListLowStockQuery) ([]LowStockView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, stock, (meta->>'min_stock')::int AS min_stock
		FROM products
		WHERE meta->>'min_stock' IS NOT NULL
		  AND stock <= (meta->>'min_stock')::int
		ORDER BY stock, name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LowStockView, 0)
	for rows.Next() {
		var (
			v  LowStockView
			id uuid.UUID
		)
		if err = rows.Scan(&id, &v.Name, &v.Stock, &v.MinStock); err != nil {
			return nil, err
		}
		if v.ProductID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
