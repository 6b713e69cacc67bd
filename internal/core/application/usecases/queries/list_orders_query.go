package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders, newest first. Customers see their own
// orders; staff see every order.
type ListOrdersQuery struct {
	actor  kernel.Actor
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor kernel.Actor, status *order.Status, limit, offset int) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if actor.IsSystem() {
		return ListOrdersQuery{}, actor.Unauthorized("list orders")
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	return ListOrdersQuery{
		actor:  actor,
		status: status,
		limit:  clampLimit(limit),
		offset: max(offset, 0),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

type OrderSummary struct {
	ID        kernel.UUID  `json:"id"`
	Number    string       `json:"number"`
	Status    string       `json:"status"`
	Method    string       `json:"method"`
	Currency  string       `json:"currency"`
	Total     kernel.Money `json:"total"`
	CreatedAt time.Time    `json:"created_at"`
}

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, number, status, method, currency, total, created_at")
	if query.actor.IsCustomer() {
		tx = tx.Where("customer_id = ?", query.actor.ID().Bytes())
	}
	if query.status != nil {
		tx = tx.Where("status = ?", query.status.String())
	}
	rows, err := tx.Order("created_at DESC, id").Limit(query.limit).Offset(query.offset).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			s     OrderSummary
			id    uuid.UUID
			total decimal.Decimal
		)
		if err = rows.Scan(&id, &s.Number, &s.Status, &s.Method, &s.Currency, &total, &s.CreatedAt); err != nil {
			return nil, err
		}
		if s.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if err = assignMoney(&s.Total, total); err != nil {
			return nil, err
		}
		s.CreatedAt = s.CreatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
