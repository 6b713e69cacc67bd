// Package inventory implements the stock ledger: products carry a cached stock
// level and every change is recorded as exactly one append-only log entry.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct")

// Meta holds the documented keys of the product meta column.
type Meta struct {
	// MinStock is the low-stock alert threshold. Nil disables low-stock alerts.
	MinStock *int `json:"min_stock,omitempty"`
}

// LogEntry is one inventory log row. StockAfter is always StockBefore plus or
// minus Quantity, and never negative.
type LogEntry struct {
	ID          kernel.UUID
	ProductID   kernel.UUID
	Type        MovementType
	Quantity    int
	StockBefore int
	StockAfter  int
	Reason      string
	Reference   string
	ActorID     *kernel.UUID
	CreatedAt   time.Time
}

// Product is the stock projection of a catalogue product. Only ApplyMovement
// changes stock.
type Product struct {
	kernel.EventRecorder

	id      kernel.UUID
	name    string
	stock   int
	meta    Meta
	version int

	pendingLogs []LogEntry

	isConstructed bool
}

// NewProduct registers a product with zero stock. Opening stock is booked as an addition.
func NewProduct(id kernel.UUID, name string, meta Meta) (*Product, error) {
	return RestoreProduct(id, name, 0, meta, 0)
}

// RestoreProduct rebuilds a persisted product at the given row version.
func RestoreProduct(id kernel.UUID, name string, stock int, meta Meta, version int) (*Product, error) {
	p := &Product{
		stock:         stock,
		version:       version,
		isConstructed: true,
	}
	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setMeta(meta),
		p.validateStock(stock),
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID { return p.id }
func (p *Product) Name() string    { return p.name }
func (p *Product) Stock() int      { return p.stock }
func (p *Product) Meta() Meta      { return p.meta }

// Version is the row version the product was loaded at.
func (p *Product) Version() int { return p.version }

// AdvanceVersion is called by the repository after a successful save.
func (p *Product) AdvanceVersion() {
	p.version++
}

// IsLow reports stock at or below the min_stock threshold.
func (p *Product) IsLow() bool {
	return p.meta.MinStock != nil && p.stock <= *p.meta.MinStock
}

// ApplyMovement applies the movement, records one log entry and raises a stock
// alert when the level crosses the low-stock threshold or reaches zero.
// On error nothing changes.
func (p *Product) ApplyMovement(id kernel.UUID, m Movement, at time.Time) (LogEntry, error) {
	if err := id.Validate(); err != nil {
		return LogEntry{}, err
	}
	before := p.stock
	after, quantity, err := m.Resolve(before)
	if err != nil {
		return LogEntry{}, fmt.Errorf("product %s: %w", p.id, err)
	}

	entry := LogEntry{
		ID:          id,
		ProductID:   p.id,
		Type:        m.Type(),
		Quantity:    quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      m.Reason(),
		Reference:   m.Reference(),
		ActorID:     m.ActorID(),
		CreatedAt:   at,
	}
	p.stock = after
	p.pendingLogs = append(p.pendingLogs, entry)

	if alert, ok := p.detectAlert(before, after); ok {
		p.Record(kernel.Event{
			Topic:      kernel.TopicInventoryAlerts,
			Name:       string(alert.Kind),
			Key:        p.id.String(),
			Payload:    alert,
			OccurredAt: at,
		})
	}
	return entry, nil
}

// PullLogs returns the log entries not yet persisted and forgets them.
func (p *Product) PullLogs() []LogEntry {
	out := p.pendingLogs
	p.pendingLogs = nil
	return out
}

// PendingLogs returns the log entries not yet persisted.
func (p *Product) PendingLogs() []LogEntry {
	return append([]LogEntry(nil), p.pendingLogs...)
}

func (p *Product) detectAlert(before, after int) (StockAlert, bool) {
	alert := StockAlert{
		ProductID:   p.id,
		ProductName: p.name,
		Stock:       after,
		MinStock:    p.meta.MinStock,
	}
	if after == 0 && before > 0 {
		alert.Kind = OutOfStock
		return alert, true
	}
	if threshold := p.meta.MinStock; threshold != nil && after <= *threshold && before > *threshold {
		alert.Kind = LowStock
		return alert, true
	}
	return StockAlert{}, false
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}

func (p *Product) setMeta(meta Meta) error {
	if meta.MinStock != nil && *meta.MinStock < 0 {
		return errs.NewValueIsOutOfRangeError("min_stock", *meta.MinStock, 0, "unbounded")
	}
	p.meta = meta
	return nil
}

func (p *Product) validateStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsOutOfRangeError("stock", stock, 0, "unbounded")
	}
	return nil
}
