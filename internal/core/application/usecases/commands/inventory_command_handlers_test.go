package commands_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

func TestApplyStockMovementCommandHandler_Handle(t *testing.T) {
	t.Run("should log an adjustment as the absolute delta", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 10)

		uow := newMockUoW()
		uow.expectTx(true)
		uow.Products.On("GetForUpdate", mock.Anything, []kernel.UUID{lamb.ID()}).
			Return([]*inventory.Product{lamb}, nil).Once()
		uow.Products.On("Save", mock.Anything, lamb).Return(nil).Once()

		cmd, err := commands.NewApplyStockMovementCommand(lamb.ID(), newActor(t, kernel.RoleStaff),
			inventory.Adjustment, 4, "stocktake", "")
		require.NoError(t, err)
		h := commands.NewApplyStockMovementCommandHandler(inventoryFactory{uow}, commands.RetryPolicy{})

		entry, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 6, entry.Quantity)
		assert.Equal(t, 10, entry.StockBefore)
		assert.Equal(t, 4, entry.StockAfter)
		uow.assertAll(t)
	})

	t.Run("should refuse waste without an approved entry", func(t *testing.T) {
		_, err := commands.NewApplyStockMovementCommand(kernel.NewUUID(), newActor(t, kernel.RoleStaff),
			inventory.Waste, 4, "spoiled", "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an addition that overflows stock", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 10)

		uow := newMockUoW()
		uow.expectTx(false)
		uow.Products.On("GetForUpdate", mock.Anything, []kernel.UUID{lamb.ID()}).
			Return([]*inventory.Product{lamb}, nil).Once()

		cmd, err := commands.NewApplyStockMovementCommand(lamb.ID(), newActor(t, kernel.RoleStaff),
			inventory.Addition, math.MaxInt, "delivery", "")
		require.NoError(t, err)
		h := commands.NewApplyStockMovementCommandHandler(inventoryFactory{uow}, commands.RetryPolicy{})

		_, err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, 10, lamb.Stock())
		uow.Products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should refuse customers", func(t *testing.T) {
		_, err := commands.NewApplyStockMovementCommand(kernel.NewUUID(), newActor(t, kernel.RoleCustomer),
			inventory.Addition, 4, "delivery", "")
		require.ErrorIs(t, err, kernel.ErrUnauthorizedActor)
	})
}

func TestDecideWasteCommandHandler_Handle(t *testing.T) {
	submit := func(t *testing.T, productID kernel.UUID, qty int) *waste.Entry {
		t.Helper()
		e, err := waste.Submit(kernel.NewUUID(), productID, newActor(t, kernel.RoleStaff),
			qty, "spoiled", "", kernel.MustMoney("4.20"), defaultTime())
		require.NoError(t, err)
		return e
	}

	t.Run("should approve and book a waste movement", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 10)
		entry := submit(t, lamb.ID(), 3)

		uow := newMockUoW()
		uow.expectTx(true)
		uow.Waste.On("GetForUpdate", mock.Anything, entry.ID()).Return(entry, nil).Once()
		uow.Products.On("GetForUpdate", mock.Anything, []kernel.UUID{lamb.ID()}).
			Return([]*inventory.Product{lamb}, nil).Once()
		uow.Products.On("Save", mock.Anything, lamb).Return(nil).Once()
		uow.Waste.On("Update", mock.Anything, entry).Return(nil).Once()

		cmd, err := commands.NewApproveWasteCommand(entry.ID(), newActor(t, kernel.RoleAdmin))
		require.NoError(t, err)
		h := commands.NewDecideWasteCommandHandler(wasteFactory{uow}, commands.RetryPolicy{})

		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, waste.Approved, entry.State())
		assert.Equal(t, 7, lamb.Stock())
		log := lamb.PendingLogs()[0]
		assert.Equal(t, inventory.Waste, log.Type)
		assert.Equal(t, entry.ID().String(), log.Reference)
		uow.assertAll(t)
	})

	t.Run("should leave the entry pending when stock is short", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 2)
		entry := submit(t, lamb.ID(), 3)

		uow := newMockUoW()
		uow.expectTx(false)
		uow.Waste.On("GetForUpdate", mock.Anything, entry.ID()).Return(entry, nil).Once()
		uow.Products.On("GetForUpdate", mock.Anything, []kernel.UUID{lamb.ID()}).
			Return([]*inventory.Product{lamb}, nil).Once()

		cmd, err := commands.NewApproveWasteCommand(entry.ID(), newActor(t, kernel.RoleAdmin))
		require.NoError(t, err)
		h := commands.NewDecideWasteCommandHandler(wasteFactory{uow}, commands.RetryPolicy{})

		require.ErrorIs(t, h.Handle(ctx, cmd), inventory.ErrInsufficientStock)
		assert.Equal(t, 2, lamb.Stock())
		uow.assertAll(t)
	})

	t.Run("should reject without touching stock", func(t *testing.T) {
		ctx := t.Context()
		entry := submit(t, kernel.NewUUID(), 3)

		uow := newMockUoW()
		uow.expectTx(true)
		uow.Waste.On("GetForUpdate", mock.Anything, entry.ID()).Return(entry, nil).Once()
		uow.Waste.On("Update", mock.Anything, entry).Return(nil).Once()

		cmd, err := commands.NewRejectWasteCommand(entry.ID(), newActor(t, kernel.RoleAdmin), "photo shows it is fine")
		require.NoError(t, err)
		h := commands.NewDecideWasteCommandHandler(wasteFactory{uow}, commands.RetryPolicy{})

		require.NoError(t, h.Handle(ctx, cmd))
		assert.Equal(t, waste.Rejected, entry.State())
		uow.assertAll(t)
	})
}

func TestSubmitWasteCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	lamb := newProduct(t, "Lamb cutlets", 10)

	uow := newMockUoW()
	uow.expectTx(true)
	uow.Products.On("Get", mock.Anything, lamb.ID()).Return(lamb, nil).Once()
	uow.Waste.On("Add", mock.Anything, mock.AnythingOfType("*waste.Entry")).Return(nil).Once()

	cmd, err := commands.NewSubmitWasteCommand(lamb.ID(), newActor(t, kernel.RoleStaff), 2, "dropped", "", kernel.MustMoney("9.00"))
	require.NoError(t, err)
	h := commands.NewSubmitWasteCommandHandler(wasteFactory{uow})

	id, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.Equal(t, 10, lamb.Stock())
	uow.assertAll(t)
}

func TestRelayOutboxCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	first := ports.OutboxMessage{ID: kernel.NewUUID(), Topic: kernel.TopicOrderEvents, Key: "a", Payload: []byte(`{}`)}
	second := ports.OutboxMessage{ID: kernel.NewUUID(), Topic: kernel.TopicInventoryAlerts, Key: "b", Payload: []byte(`{}`)}

	uow := newMockUoW()
	uow.expectTx(true)
	uow.Outbox.On("GetUnpublished", mock.Anything, 100).Return([]ports.OutboxMessage{first, second}, nil).Once()
	uow.Outbox.On("MarkFailed", mock.Anything, first.ID, "broker unavailable").Return(nil).Once()
	uow.Outbox.On("MarkPublished", mock.Anything, second.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, []ports.OutboxMessage{first}).Return(errors.New("broker unavailable")).Once()
	publisher.On("Publish", mock.Anything, []ports.OutboxMessage{second}).Return(nil).Once()

	cmd, err := commands.NewRelayOutboxCommand(100)
	require.NoError(t, err)
	h := commands.NewRelayOutboxCommandHandler(outboxFactory{uow}, publisher)

	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, commands.RelayResult{Published: 1, Failed: 1}, res)
	uow.assertAll(t)
	publisher.AssertExpectations(t)
}
