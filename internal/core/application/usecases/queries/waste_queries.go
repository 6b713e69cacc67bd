package queries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrWasteSummaryQueryIsNotConstructed = errors.New(
		"WasteSummaryQuery must be created via NewWasteSummaryQuery constructor",
	)
	ErrListWasteEntriesQueryIsNotConstructed = errors.New(
		"ListWasteEntriesQuery must be created via NewListWasteEntriesQuery constructor",
	)
)

const wasteStateExpr = `CASE
	WHEN w.approved_at IS NOT NULL THEN 'approved'
	WHEN w.rejected_at IS NOT NULL THEN 'rejected'
	ELSE 'pending'
END`

// Period bounds a report on created_at, [From, To). Either end may be open.
type Period struct {
	From *time.Time
	To   *time.Time
}

func (p Period) validate() error {
	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return errs.NewValueIsInvalidErrorWithCause("period", errors.New("from must be before to"))
	}
	return nil
}

func (p Period) apply(tx *gorm.DB) *gorm.DB {
	if p.From != nil {
		tx = tx.Where("w.created_at >= ?", p.From.UTC())
	}
	if p.To != nil {
		tx = tx.Where("w.created_at < ?", p.To.UTC())
	}
	return tx
}

// WasteSummaryQuery aggregates waste entries per state over a period.
type WasteSummaryQuery struct {
	period Period

	guard guard.ConstructorGuard
}

func NewWasteSummaryQuery(actor kernel.Actor, period Period) (WasteSummaryQuery, error) {
	if !actor.IsStaff() {
		return WasteSummaryQuery{}, actor.Unauthorized("read waste reports")
	}
	if err := period.validate(); err != nil {
		return WasteSummaryQuery{}, err
	}
	return WasteSummaryQuery{period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q WasteSummaryQuery) Validate() error {
	return q.guard.Validate(ErrWasteSummaryQueryIsNotConstructed)
}

type WasteTotals struct {
	Count    int          `json:"count"`
	Quantity int          `json:"quantity"`
	Value    kernel.Money `json:"value"`
}

type WasteSummary struct {
	Pending  WasteTotals `json:"pending"`
	Approved WasteTotals `json:"approved"`
	Rejected WasteTotals `json:"rejected"`
}

type WasteSummaryQueryHandler struct {
	db *gorm.DB
}

func NewWasteSummaryQueryHandler(db *gorm.DB) WasteSummaryQueryHandler {
	return WasteSummaryQueryHandler{db: db}
}

func (h WasteSummaryQueryHandler) Handle(ctx context.Context, query WasteSummaryQuery) (WasteSummary, error) {
	if err := query.Validate(); err != nil {
		return WasteSummary{}, err
	}

	tx := h.db.WithContext(ctx).
		Table("waste_logs AS w").
		Select(wasteStateExpr + ` AS state, COUNT(*), COALESCE(SUM(w.quantity), 0), COALESCE(SUM(w.total_cost), 0)`)
	rows, err := query.period.apply(tx).Group("state").Rows()
	if err != nil {
		return WasteSummary{}, err
	}
	defer rows.Close()

	summary := WasteSummary{
		Pending:  WasteTotals{Value: kernel.Zero},
		Approved: WasteTotals{Value: kernel.Zero},
		Rejected: WasteTotals{Value: kernel.Zero},
	}
	for rows.Next() {
		var (
			state string
			t     WasteTotals
			value decimal.Decimal
		)
		if err = rows.Scan(&state, &t.Count, &t.Quantity, &value); err != nil {
			return WasteSummary{}, err
		}
		if err = assignMoney(&t.Value, value); err != nil {
			return WasteSummary{}, err
		}
		switch waste.State(state) {
		case waste.Pending:
			summary.Pending = t
		case waste.Approved:
			summary.Approved = t
		case waste.Rejected:
			summary.Rejected = t
		}
	}
	return summary, rows.Err()
}

// ListWasteEntriesQuery lists waste entries with their product name, oldest first.
type ListWasteEntriesQuery struct {
	state  *waste.State
	period Period

	guard guard.ConstructorGuard
}

func NewListWasteEntriesQuery(actor kernel.Actor, state *waste.State, period Period) (ListWasteEntriesQuery, error) {
	if !actor.IsStaff() {
		return ListWasteEntriesQuery{}, actor.Unauthorized("read waste reports")
	}
	if state != nil {
		if _, err := waste.ParseState(string(*state)); err != nil {
			return ListWasteEntriesQuery{}, err
		}
	}
	if err := period.validate(); err != nil {
		return ListWasteEntriesQuery{}, err
	}
	return ListWasteEntriesQuery{state: state, period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q ListWasteEntriesQuery) Validate() error {
	return q.guard.Validate(ErrListWasteEntriesQueryIsNotConstructed)
}

type WasteEntryView struct {
	ID             kernel.UUID  `json:"id"`
	ProductID      kernel.UUID  `json:"product_id"`
	ProductName    string       `json:"product_name"`
	State          string       `json:"state"`
	Quantity       int          `json:"quantity"`
	Reason         string       `json:"reason"`
	Notes          string       `json:"notes,omitempty"`
	UnitCost       kernel.Money `json:"unit_cost"`
	TotalCost      kernel.Money `json:"total_cost"`
	LoggedBy       kernel.UUID  `json:"logged_by"`
	CreatedAt      time.Time    `json:"created_at"`
	RejectionNotes string       `json:"rejection_notes,omitempty"`
}

type ListWasteEntriesQueryHandler struct {
	db *gorm.DB
}

func NewListWasteEntriesQueryHandler(db *gorm.DB) ListWasteEntriesQueryHandler {
	return ListWasteEntriesQueryHandler{db: db}
}

func (h ListWasteEntriesQueryHandler) Handle(ctx context.Context, query ListWasteEntriesQuery) ([]WasteEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("waste_logs AS w").
		Joins("JOIN products AS p ON p.id = w.product_id").
		Select(`w.id, w.product_id, p.name, ` + wasteStateExpr + ` AS state,
			w.quantity, w.reason, w.notes, w.unit_cost, w.total_cost, w.logged_by, w.created_at, w.rejection_notes`)
	if query.state != nil {
		tx = tx.Where(wasteStateExpr+" = ?", string(*query.state))
	}
	rows, err := query.period.apply(tx).Order("w.created_at, w.id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]WasteEntryView, 0)
	for rows.Next() {
		var (
			v                     WasteEntryView
			id, productID, logger uuid.UUID
			unitCost, totalCost   decimal.Decimal
		)
		if err = rows.Scan(&id, &productID, &v.ProductName, &v.State, &v.Quantity, &v.Reason, &v.Notes,
			&unitCost, &totalCost, &logger, &v.CreatedAt, &v.RejectionNotes); err != nil {
			return nil, err
		}
		if err = errors.Join(
			assignUUID(&v.ID, id),
			assignUUID(&v.ProductID, productID),
			assignUUID(&v.LoggedBy, logger),
			assignMoney(&v.UnitCost, unitCost),
			assignMoney(&v.TotalCost, totalCost),
		); err != nil {
			return nil, err
		}
		v.CreatedAt = v.CreatedAt.UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

func assignUUID(dst *kernel.UUID, id uuid.UUID) error {
	u, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return err
	}
	*dst = u
	return nil
}
