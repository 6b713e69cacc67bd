package services_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stocked(t *testing.T, id string, stock int) *inventory.Product {
	t.Helper()
	pid, err := kernel.UUIDFromString(id)
	require.NoError(t, err)
	p, err := inventory.RestoreProduct(pid, "product "+id[:1], stock, inventory.Meta{}, 1)
	require.NoError(t, err)
	return p
}

func TestInventoryLedger_Apply(t *testing.T) {
	ledger := services.NewInventoryLedger()

	t.Run("applies in ascending product order", func(t *testing.T) {
		a := stocked(t, "10000000-0000-0000-0000-000000000000", 10)
		b := stocked(t, "20000000-0000-0000-0000-000000000000", 5)
		requests, err := services.Deductions(map[kernel.UUID]int{b.ID(): 2, a.ID(): 4}, "order", "ORD-20260101-AAAAAA", nil)
		require.NoError(t, err)

		entries, err := ledger.Apply([]*inventory.Product{b, a}, requests, time.Now())

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].ProductID.IsEqual(a.ID()))
		assert.Equal(t, 10, entries[0].StockBefore)
		assert.Equal(t, 6, entries[0].StockAfter)
		assert.Equal(t, 3, b.Stock())
	})

	t.Run("one short line applies nothing", func(t *testing.T) {
		a := stocked(t, "10000000-0000-0000-0000-000000000000", 10)
		b := stocked(t, "20000000-0000-0000-0000-000000000000", 1)
		requests, err := services.Deductions(map[kernel.UUID]int{a.ID(): 4, b.ID(): 2}, "order", "", nil)
		require.NoError(t, err)

		_, err = ledger.Apply([]*inventory.Product{a, b}, requests, time.Now())

		require.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.Equal(t, 10, a.Stock())
		assert.Equal(t, 1, b.Stock())
		assert.Empty(t, a.PendingLogs())
	})

	t.Run("repeated lines for one product are checked cumulatively", func(t *testing.T) {
		a := stocked(t, "10000000-0000-0000-0000-000000000000", 5)
		m, _ := inventory.NewMovement(inventory.Waste, 3, "spoiled", "", nil)
		requests := []services.StockRequest{{ProductID: a.ID(), Movement: m}, {ProductID: a.ID(), Movement: m}}

		_, err := ledger.Apply([]*inventory.Product{a}, requests, time.Now())

		require.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.Equal(t, 5, a.Stock())
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		requests, _ := services.Restorations(map[kernel.UUID]int{kernel.NewUUID(): 1}, "cancel", "", nil)

		_, err := ledger.Apply(nil, requests, time.Now())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
