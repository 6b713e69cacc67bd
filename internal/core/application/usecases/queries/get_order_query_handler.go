package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// GetOrderQueryHandler reads an order snapshot straight from the order tables.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound both for missing orders and for orders
// that belong to another customer.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	db := h.db.WithContext(ctx)
	view, err := h.order(db, query.orderID)
	if err != nil {
		return OrderView{}, err
	}
	if query.actor.IsCustomer() && !query.actor.Is(view.CustomerID) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.orderID.String())
	}

	if view.Items, err = h.items(db, query.orderID); err != nil {
		return OrderView{}, err
	}
	if view.History, err = h.history(db, query.orderID); err != nil {
		return OrderView{}, err
	}
	if !query.actor.IsCustomer() {
		if view.Assignments, err = h.assignments(db, query.orderID); err != nil {
			return OrderView{}, err
		}
	}
	if view.Proof, err = h.proof(db, query.orderID); err != nil {
		return OrderView{}, err
	}
	return view, nil
}

func (h GetOrderQueryHandler) order(db *gorm.DB, id kernel.UUID) (OrderView, error) {
	var (
		v                                    OrderView
		orderID, customerID                  uuid.UUID
		staff, resolvedBy                    uuid.NullUUID
		rate, subtotal, fee, discount, total decimal.Decimal
		issueReport, issueResolution         sql.NullString
		issueReportedAt, issueResolvedAt     *time.Time
	)

	row := db.Raw(`
		SELECT
			id, number, customer_id, status, method, currency, exchange_rate,
			subtotal, delivery_fee, discount, total, promo_code,
			street, suburb, postcode, phone, zone_name, estimated_days,
			scheduled_date, time_slot, assigned_staff_id, delivered_at, created_at,
			issue_report, issue_reported_at, issue_resolution, issue_resolved_at, issue_resolved_by
		FROM orders
		WHERE id = ?
	`, id.Bytes()).Row()
	err := row.Scan(
		&orderID, &v.Number, &customerID, &v.Status, &v.Method, &v.Currency, &rate,
		&subtotal, &fee, &discount, &total, &v.PromoCode,
		&v.Street, &v.Suburb, &v.Postcode, &v.Phone, &v.ZoneName, &v.EstimatedDays,
		&v.ScheduledDate, &v.TimeSlot, &staff, &v.DeliveredAt, &v.CreatedAt,
		&issueReport, &issueReportedAt, &issueResolution, &issueResolvedAt, &resolvedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return OrderView{}, err
	}

	if v.ID, err = kernel.UUIDFromGoogle(orderID); err != nil {
		return OrderView{}, err
	}
	if v.CustomerID, err = kernel.UUIDFromGoogle(customerID); err != nil {
		return OrderView{}, err
	}
	if v.AssignedStaffID, err = nullableUUID(staff); err != nil {
		return OrderView{}, err
	}
	v.ExchangeRate = rate.StringFixed(6)
	if err = errors.Join(
		assignMoney(&v.Subtotal, subtotal),
		assignMoney(&v.DeliveryFee, fee),
		assignMoney(&v.Discount, discount),
		assignMoney(&v.Total, total),
	); err != nil {
		return OrderView{}, err
	}
	v.DeliveredAt = nullableTime(v.DeliveredAt)
	v.CreatedAt = v.CreatedAt.UTC()

	if issueReport.Valid && issueReportedAt != nil {
		resolver, err := nullableUUID(resolvedBy)
		if err != nil {
			return OrderView{}, err
		}
		v.Issue = &IssueView{
			Report:     issueReport.String,
			ReportedAt: issueReportedAt.UTC(),
			Resolution: issueResolution.String,
			ResolvedAt: nullableTime(issueResolvedAt),
			ResolvedBy: resolver,
		}
	}
	return v, nil
}

func (h GetOrderQueryHandler) items(db *gorm.DB, id kernel.UUID) ([]ItemView, error) {
	rows, err := db.Raw(`
		SELECT product_id, name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ItemView, 0)
	for rows.Next() {
		var (
			item              ItemView
			productID         uuid.UUID
			unitPrice, amount decimal.Decimal
		)
		if err = rows.Scan(&productID, &item.Name, &item.Quantity, &unitPrice, &amount); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromGoogle(productID); err != nil {
			return nil, err
		}
		if err = errors.Join(assignMoney(&item.UnitPrice, unitPrice), assignMoney(&item.LineTotal, amount)); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (h GetOrderQueryHandler) history(db *gorm.DB, id kernel.UUID) ([]HistoryView, error) {
	rows, err := db.Raw(`
		SELECT status, note, changed_by, created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at, seq
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]HistoryView, 0)
	for rows.Next() {
		var (
			entry HistoryView
			by    uuid.NullUUID
		)
		if err = rows.Scan(&entry.Status, &entry.Note, &by, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if entry.ChangedBy, err = nullableUUID(by); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (h GetOrderQueryHandler) assignments(db *gorm.DB, id kernel.UUID) ([]AssignView, error) {
	rows, err := db.Raw(`
		SELECT staff_id, previous_staff_id, reason, assigned_by, assigned_at
		FROM order_assignments
		WHERE order_id = ?
		ORDER BY assigned_at
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssignView
	for rows.Next() {
		var (
			a                 AssignView
			staff, assignedBy uuid.UUID
			previous          uuid.NullUUID
		)
		if err = rows.Scan(&staff, &previous, &a.Reason, &assignedBy, &a.AssignedAt); err != nil {
			return nil, err
		}
		if a.StaffID, err = kernel.UUIDFromGoogle(staff); err != nil {
			return nil, err
		}
		if a.AssignedBy, err = kernel.UUIDFromGoogle(assignedBy); err != nil {
			return nil, err
		}
		if a.PreviousStaff, err = nullableUUID(previous); err != nil {
			return nil, err
		}
		a.AssignedAt = a.AssignedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (h GetOrderQueryHandler) proof(db *gorm.DB, id kernel.UUID) (*ProofView, error) {
	var p ProofView
	err := db.Raw(`
		SELECT signature_key, photo_key, recipient_name, left_at_door, captured_at
		FROM delivery_proofs
		WHERE order_id = ?
	`, id.Bytes()).Row().Scan(&p.SignatureKey, &p.PhotoKey, &p.RecipientName, &p.LeftAtDoor, &p.CapturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CapturedAt = p.CapturedAt.UTC()
	return &p, nil
}

func assignMoney(dst *kernel.Money, d decimal.Decimal) error {
	m, err := money(d)
	if err != nil {
		return err
	}
	*dst = m
	return nil
}
