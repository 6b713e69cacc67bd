// Package queries contains read-only operations over the storefront tables.
// Query handlers read through gorm raw SQL and return flat view structs;
// they never load aggregates.
package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/kernel"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func nullableUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	return kernel.OptionalUUID(&id.UUID)
}

func money(d decimal.Decimal) (kernel.Money, error) {
	return kernel.NewMoney(d)
}

func nullableTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
