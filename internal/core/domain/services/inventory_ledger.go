package services

import (
	"fmt"
	"slices"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// StockRequest is one movement against one product.
type StockRequest struct {
	ProductID kernel.UUID
	Movement  inventory.Movement
}

// InventoryLedger applies stock movements across several products as one unit.
//
// Every request is first checked against a running copy of each product's stock;
// only when all of them fit are they applied, in ascending product id order.
// A failure therefore leaves every product untouched.
type InventoryLedger struct{}

func NewInventoryLedger() InventoryLedger {
	return InventoryLedger{}
}

// Apply returns one log entry per request. products must contain every product
// referenced by requests.
func (InventoryLedger) Apply(
	products []*inventory.Product,
	requests []StockRequest,
	at time.Time,
) ([]inventory.LogEntry, error) {
	byID := make(map[kernel.UUID]*inventory.Product, len(products))
	running := make(map[kernel.UUID]int, len(products))
	for _, p := range products {
		byID[p.ID()] = p
		running[p.ID()] = p.Stock()
	}

	ordered := slices.Clone(requests)
	slices.SortStableFunc(ordered, func(a, b StockRequest) int {
		return a.ProductID.Compare(b.ProductID)
	})

	for _, req := range ordered {
		p, ok := byID[req.ProductID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", req.ProductID.String())
		}
		after, _, err := req.Movement.Resolve(running[req.ProductID])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		running[req.ProductID] = after
	}

	entries := make([]inventory.LogEntry, 0, len(ordered))
	for _, req := range ordered {
		entry, err := byID[req.ProductID].ApplyMovement(kernel.NewUUID(), req.Movement, at)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Deductions builds one deduction request per line, referencing the order number.
func Deductions(lines map[kernel.UUID]int, reason, reference string, actorID *kernel.UUID) ([]StockRequest, error) {
	return linesToRequests(inventory.Deduction, lines, reason, reference, actorID)
}

// Restorations builds the additions that undo Deductions.
func Restorations(lines map[kernel.UUID]int, reason, reference string, actorID *kernel.UUID) ([]StockRequest, error) {
	return linesToRequests(inventory.Addition, lines, reason, reference, actorID)
}

func linesToRequests(
	typ inventory.MovementType,
	lines map[kernel.UUID]int,
	reason, reference string,
	actorID *kernel.UUID,
) ([]StockRequest, error) {
	requests := make([]StockRequest, 0, len(lines))
	for id, qty := range lines {
		m, err := inventory.NewMovement(typ, qty, reason, reference, actorID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, StockRequest{ProductID: id, Movement: m})
	}
	return requests, nil
}
