package inventory_test

import (
	"math"
	"testing"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func productWithStock(t *testing.T, stock int, minStock *int) *inventory.Product {
	t.Helper()
	p, err := inventory.RestoreProduct(kernel.NewUUID(), "Scotch fillet 500g", stock, inventory.Meta{MinStock: minStock}, 1)
	require.NoError(t, err)
	return p
}

func movement(t *testing.T, typ inventory.MovementType, qty int) inventory.Movement {
	t.Helper()
	m, err := inventory.NewMovement(typ, qty, "test", "ORD-20260101-ABC123", nil)
	require.NoError(t, err)
	return m
}

func TestRestoreProduct_Validation(t *testing.T) {
	var id kernel.UUID

	p, err := inventory.RestoreProduct(id, "", -1, inventory.Meta{MinStock: intPtr(-2)}, 0)

	require.Error(t, err)
	assert.Nil(t, p)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestProduct_DeductThenRestore(t *testing.T) {
	p := productWithStock(t, 10, nil)
	at := time.Now()

	deducted, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Deduction, 4), at)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock())
	assert.Equal(t, 10, deducted.StockBefore)
	assert.Equal(t, 6, deducted.StockAfter)

	restored, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Addition, 4), at)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock())
	assert.Equal(t, 6, restored.StockBefore)
	assert.Equal(t, 10, restored.StockAfter)

	logs := p.PullLogs()
	require.Len(t, logs, 2)
	assert.Empty(t, p.PullLogs())
}

func TestProduct_InsufficientStockAppliesNothing(t *testing.T) {
	p := productWithStock(t, 2, nil)

	_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Waste, 5), time.Now())

	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 2, p.Stock())
	assert.Empty(t, p.PendingLogs())
	assert.Empty(t, p.PullEvents())
}

func TestProduct_Adjustment(t *testing.T) {
	t.Run("downward adjustment logs absolute delta", func(t *testing.T) {
		p := productWithStock(t, 10, nil)
		m, err := inventory.NewAdjustment(7, "stocktake", "", nil)
		require.NoError(t, err)

		entry, err := p.ApplyMovement(kernel.NewUUID(), m, time.Now())

		require.NoError(t, err)
		assert.Equal(t, inventory.Adjustment, entry.Type)
		assert.Equal(t, 3, entry.Quantity)
		assert.Equal(t, 10, entry.StockBefore)
		assert.Equal(t, 7, entry.StockAfter)
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		p := productWithStock(t, 10, nil)
		m, _ := inventory.NewAdjustment(10, "stocktake", "", nil)

		_, err := p.ApplyMovement(kernel.NewUUID(), m, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Empty(t, p.PendingLogs())
	})

	t.Run("negative target is rejected", func(t *testing.T) {
		_, err := inventory.NewAdjustment(-1, "stocktake", "", nil)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("reason is required", func(t *testing.T) {
		_, err := inventory.NewAdjustment(3, " ", "", nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestProduct_AdditionOverflowAppliesNothing(t *testing.T) {
	p := productWithStock(t, 10, nil)

	_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Addition, math.MaxInt), time.Now())

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Equal(t, 10, p.Stock())
	assert.Empty(t, p.PullLogs())

	_, err = p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Addition, math.MaxInt-10), time.Now())
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, p.Stock())
}

func TestNewMovement_Validation(t *testing.T) {
	_, err := inventory.NewMovement(inventory.Deduction, 0, "", "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = inventory.NewMovement(inventory.Adjustment, 3, "", "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = inventory.NewMovement("theft", 3, "", "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestProduct_Alerts(t *testing.T) {
	t.Run("crossing min stock raises low stock once", func(t *testing.T) {
		p := productWithStock(t, 8, intPtr(5))

		_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Deduction, 3), time.Now())
		require.NoError(t, err)
		_, err = p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Deduction, 1), time.Now())
		require.NoError(t, err)

		events := p.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, kernel.TopicInventoryAlerts, events[0].Topic)
		alert, ok := events[0].Payload.(inventory.StockAlert)
		require.True(t, ok)
		assert.Equal(t, inventory.LowStock, alert.Kind)
		assert.Equal(t, 5, alert.Stock)
		assert.True(t, p.IsLow())
	})

	t.Run("reaching zero raises out of stock only", func(t *testing.T) {
		p := productWithStock(t, 8, intPtr(5))

		_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Deduction, 8), time.Now())
		require.NoError(t, err)

		events := p.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, string(inventory.OutOfStock), events[0].Name)
	})

	t.Run("no threshold means only out of stock", func(t *testing.T) {
		p := productWithStock(t, 3, nil)

		_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Deduction, 2), time.Now())
		require.NoError(t, err)

		assert.Empty(t, p.PullEvents())
	})

	t.Run("additions never alert", func(t *testing.T) {
		p := productWithStock(t, 0, intPtr(5))

		_, err := p.ApplyMovement(kernel.NewUUID(), movement(t, inventory.Addition, 2), time.Now())
		require.NoError(t, err)

		assert.Empty(t, p.PullEvents())
	})
}
