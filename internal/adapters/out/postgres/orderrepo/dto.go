// Package orderrepo persists order aggregates: the orders row, its line items,
// the append-only status history, the staff assignment log and the delivery proof.
package orderrepo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderDTO is the orders row. Line items are written once, with the order.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number          string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          string          `gorm:"type:varchar(32);not null;index:idx_orders_status_created,priority:1"`
	Method          string          `gorm:"type:varchar(16);not null"`
	Currency        string          `gorm:"type:char(3);not null"`
	ExchangeRate    decimal.Decimal `gorm:"type:numeric(10,6);not null"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PromoCode       string          `gorm:"type:varchar(64);not null"`
	Street          string          `gorm:"type:varchar(255);not null"`
	Suburb          string          `gorm:"type:varchar(128);not null"`
	Postcode        string          `gorm:"type:varchar(16);not null"`
	Phone           string          `gorm:"type:varchar(32);not null"`
	ZoneID          *uuid.UUID      `gorm:"type:uuid"`
	ZoneName        string          `gorm:"type:varchar(128);not null"`
	EstimatedDays   int             `gorm:"not null"`
	ScheduledDate   *time.Time      `gorm:"type:date"`
	TimeSlot        string          `gorm:"type:varchar(64);not null"`
	AssignedStaffID *uuid.UUID      `gorm:"type:uuid;index"`
	IssueReport     *string         `gorm:"type:text"`
	IssueReportedAt *time.Time
	IssueReportedBy *uuid.UUID      `gorm:"type:uuid"`
	IssueResolution *string         `gorm:"type:text"`
	IssueResolvedAt *time.Time
	IssueResolvedBy *uuid.UUID      `gorm:"type:uuid"`
	DeliveredAt     *time.Time
	Version         int             `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null;index:idx_orders_status_created,priority:2"`
	UpdatedAt       time.Time

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO is append-only; Seq orders rows written in the same instant.
type HistoryDTO struct {
	Seq       int64      `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(32);not null"`
	Note      string     `gorm:"type:text;not null"`
	ChangedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (HistoryDTO) TableName() string {
	return "order_status_history"
}

type AssignmentDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	StaffID         uuid.UUID  `gorm:"type:uuid;not null"`
	PreviousStaffID *uuid.UUID `gorm:"type:uuid"`
	Reason          string     `gorm:"type:text;not null"`
	AssignedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedAt      time.Time  `gorm:"not null"`
}

func (AssignmentDTO) TableName() string {
	return "order_assignments"
}

type ProofDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SignatureKey  string    `gorm:"type:varchar(512);not null"`
	PhotoKey      string    `gorm:"type:varchar(512);not null"`
	RecipientName string    `gorm:"type:varchar(255);not null"`
	LeftAtDoor    bool      `gorm:"not null"`
	CapturedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CapturedAt    time.Time `gorm:"not null"`
}

func (ProofDTO) TableName() string {
	return "delivery_proofs"
}

// Models lists every table owned by this package, for migrations.
func Models() []any {
	return []any{&OrderDTO{}, &OrderItemDTO{}, &HistoryDTO{}, &AssignmentDTO{}, &ProofDTO{}}
}

func fromDomain(o *order.Order) OrderDTO {
	addr := o.Address()
	dto := OrderDTO{
		ID:              o.ID().Bytes(),
		Number:          o.Number(),
		CustomerID:      o.CustomerID().Bytes(),
		Status:          o.Status().String(),
		Method:          string(o.Method()),
		Currency:        string(o.Currency().Code()),
		ExchangeRate:    o.Currency().Rate().Decimal(),
		Subtotal:        o.Subtotal().Decimal(),
		DeliveryFee:     o.DeliveryFee().Decimal(),
		Discount:        o.Discount().Decimal(),
		Total:           o.Total().Decimal(),
		PromoCode:       o.PromoCode(),
		Street:          addr.Street(),
		Suburb:          addr.Suburb(),
		Postcode:        addr.Postcode(),
		Phone:           addr.Phone(),
		ZoneID:          kernel.RawUUID(o.ZoneID()),
		ZoneName:        o.ZoneName(),
		EstimatedDays:   o.EstimatedDays(),
		ScheduledDate:   o.Schedule().Date,
		TimeSlot:        o.Schedule().TimeSlot,
		AssignedStaffID: kernel.RawUUID(o.AssignedStaff()),
		DeliveredAt:     o.DeliveredAt(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
	}

	if issue := o.Issue(); issue != nil {
		reportedBy := issue.ReportedBy.Bytes()
		dto.IssueReport = &issue.Report
		dto.IssueReportedAt = &issue.ReportedAt
		dto.IssueReportedBy = &reportedBy
		if issue.ResolvedAt != nil {
			dto.IssueResolution = &issue.Resolution
			dto.IssueResolvedAt = issue.ResolvedAt
			dto.IssueResolvedBy = kernel.RawUUID(issue.ResolvedBy)
		}
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:   dto.ID,
			Position:  i,
			ProductID: item.ProductID.Bytes(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Decimal(),
			LineTotal: item.LineTotal.Decimal(),
		})
	}
	return dto
}

// mutableColumns are the columns Update may change. Line items, totals and the
// currency snapshot are fixed at placement.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"status":            dto.Status,
		"assigned_staff_id": dto.AssignedStaffID,
		"issue_report":      dto.IssueReport,
		"issue_reported_at": dto.IssueReportedAt,
		"issue_reported_by": dto.IssueReportedBy,
		"issue_resolution":  dto.IssueResolution,
		"issue_resolved_at": dto.IssueResolvedAt,
		"issue_resolved_by": dto.IssueResolvedBy,
		"delivered_at":      dto.DeliveredAt,
		"updated_at":        time.Now().UTC(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, idErr := kernel.UUIDFromGoogle(dto.ID)
	customerID, customerErr := kernel.UUIDFromGoogle(dto.CustomerID)
	status, statusErr := order.ParseStatus(dto.Status)
	method, methodErr := order.ParseMethod(dto.Method)
	snapshot, snapshotErr := restoreSnapshot(dto.Currency, dto.ExchangeRate)
	zoneID, zoneErr := kernel.OptionalUUID(dto.ZoneID)
	staffID, staffErr := kernel.OptionalUUID(dto.AssignedStaffID)
	if err := errors.Join(idErr, customerErr, statusErr, methodErr, snapshotErr, zoneErr, staffErr); err != nil {
		return nil, err
	}

	var addr kernel.Address
	if dto.Street != "" {
		var err error
		if addr, err = kernel.NewAddress(dto.Street, dto.Suburb, dto.Postcode, dto.Phone); err != nil {
			return nil, err
		}
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}
	issue, err := issueToDomain(dto)
	if err != nil {
		return nil, err
	}

	subtotal, subtotalErr := kernel.NewMoney(dto.Subtotal)
	fee, feeErr := kernel.NewMoney(dto.DeliveryFee)
	discount, discountErr := kernel.NewMoney(dto.Discount)
	total, totalErr := kernel.NewMoney(dto.Total)
	if err = errors.Join(subtotalErr, feeErr, discountErr, totalErr); err != nil {
		return nil, err
	}

	return order.Restore(order.RestoreParams{
		ID:            id,
		Number:        dto.Number,
		CustomerID:    customerID,
		Status:        status,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Discount:      discount,
		Total:         total,
		Currency:      snapshot,
		Method:        method,
		Address:       addr,
		ZoneID:        zoneID,
		ZoneName:      dto.ZoneName,
		EstimatedDays: dto.EstimatedDays,
		Schedule:      order.Schedule{Date: utcPtr(dto.ScheduledDate), TimeSlot: dto.TimeSlot},
		AssignedStaff: staffID,
		Issue:         issue,
		DeliveredAt:   utcPtr(dto.DeliveredAt),
		PromoCode:     dto.PromoCode,
		Version:       dto.Version,
		CreatedAt:     dto.CreatedAt.UTC(),
	})
}

func restoreSnapshot(code string, rate decimal.Decimal) (currency.Snapshot, error) {
	c, err := currency.ParseCode(code)
	if err != nil {
		return currency.Snapshot{}, err
	}
	r, err := currency.NewRate(rate)
	if err != nil {
		return currency.Snapshot{}, err
	}
	return currency.NewSnapshot(c, r)
}

func itemsToDomain(dtos []OrderItemDTO) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(dtos))
	for _, d := range dtos {
		productID, idErr := kernel.UUIDFromGoogle(d.ProductID)
		unitPrice, priceErr := kernel.NewMoney(d.UnitPrice)
		lineTotal, totalErr := kernel.NewMoney(d.LineTotal)
		if err := errors.Join(idErr, priceErr, totalErr); err != nil {
			return nil, err
		}
		items = append(items, order.LineItem{
			ProductID: productID,
			Name:      d.Name,
			Quantity:  d.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}
	return items, nil
}

func issueToDomain(dto OrderDTO) (*order.DeliveryIssue, error) {
	if dto.IssueReport == nil || dto.IssueReportedAt == nil || dto.IssueReportedBy == nil {
		return nil, nil
	}
	reportedBy, err := kernel.UUIDFromGoogle(*dto.IssueReportedBy)
	if err != nil {
		return nil, err
	}
	resolvedBy, err := kernel.OptionalUUID(dto.IssueResolvedBy)
	if err != nil {
		return nil, err
	}

	issue := &order.DeliveryIssue{
		Report:     *dto.IssueReport,
		ReportedAt: dto.IssueReportedAt.UTC(),
		ReportedBy: reportedBy,
		ResolvedAt: utcPtr(dto.IssueResolvedAt),
		ResolvedBy: resolvedBy,
	}
	if dto.IssueResolution != nil {
		issue.Resolution = *dto.IssueResolution
	}
	return issue, nil
}

func historyFromDomain(entries []order.HistoryEntry) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryDTO{
			ID:        e.ID.Bytes(),
			OrderID:   e.OrderID.Bytes(),
			Status:    e.Status.String(),
			Note:      e.Note,
			ChangedBy: kernel.RawUUID(e.ChangedBy),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func assignmentsFromDomain(entries []order.Assignment) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(entries))
	for _, a := range entries {
		out = append(out, AssignmentDTO{
			ID:              a.ID.Bytes(),
			OrderID:         a.OrderID.Bytes(),
			StaffID:         a.StaffID.Bytes(),
			PreviousStaffID: kernel.RawUUID(a.PreviousStaff),
			Reason:          a.Reason,
			AssignedBy:      a.AssignedBy.Bytes(),
			AssignedAt:      a.AssignedAt,
		})
	}
	return out
}

func proofFromDomain(p order.DeliveryProof) ProofDTO {
	return ProofDTO{
		ID:            p.ID().Bytes(),
		OrderID:       p.OrderID().Bytes(),
		SignatureKey:  p.SignatureKey(),
		PhotoKey:      p.PhotoKey(),
		RecipientName: p.RecipientName(),
		LeftAtDoor:    p.LeftAtDoor(),
		CapturedBy:    p.CapturedBy().Bytes(),
		CapturedAt:    p.CapturedAt(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
