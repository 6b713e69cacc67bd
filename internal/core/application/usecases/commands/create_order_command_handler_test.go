package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/pkg/errs"
)

func checkout(
	t *testing.T,
	suburb, code string,
	lines ...commands.CartLine,
) commands.CreateOrderCommand {
	t.Helper()
	addr, err := kernel.NewAddress("1 George St", suburb, "", "0412 345 678")
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(newActor(t, kernel.RoleCustomer), lines, order.MethodDelivery, addr,
		commands.CheckoutDetails{Currency: code})
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should reserve stock and add the order", func(t *testing.T) {
		ctx := t.Context()
		lamb, pork := newProduct(t, "Lamb cutlets", 10), newProduct(t, "Pork belly", 5)
		cmd := checkout(t, "Sydney", "AUD",
			commands.CartLine{ProductID: lamb.ID(), Quantity: 2, UnitPrice: kernel.MustMoney("10.00")},
			commands.CartLine{ProductID: pork.ID(), Quantity: 1, UnitPrice: kernel.MustMoney("30.00")},
		)

		uow := newMockUoW()
		var added *order.Order
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil).Once(),
			uow.Zones.On("ListActive", mock.Anything).Return([]*zone.Zone{innerSydney(t)}, nil).Once(),
			uow.Products.On("GetForUpdate", mock.Anything, kernel.SortUUIDs([]kernel.UUID{lamb.ID(), pork.ID()})).
				Return([]*inventory.Product{lamb, pork}, nil).Once(),
			uow.Products.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Product")).Return(nil).Twice(),
			uow.Orders.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
				Run(func(args mock.Arguments) { added = args.Get(1).(*order.Order) }).Return(nil).Once(),
			uow.On("Commit", mock.Anything).Return(nil).Once(),
			uow.On("Rollback", mock.Anything).Return(nil).Once(),
		)

		h := commands.NewCreateOrderCommandHandler(uowFactory{uow}, commands.RetryPolicy{})
		created, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		uow.assertAll(t)
		assert.Equal(t, 8, lamb.Stock())
		assert.Equal(t, 4, pork.Stock())
		require.NotNil(t, added)
		assert.Equal(t, created.ID, added.ID())
		assert.Equal(t, "62.95", created.Total.String())
		assert.Equal(t, "Inner Sydney", added.ZoneName())
		assert.Equal(t, order.Pending, added.Status())
		assert.Equal(t, added.Number(), lamb.PendingLogs()[0].Reference)
	})

	t.Run("should persist nothing when one line is short", func(t *testing.T) {
		ctx := t.Context()
		lamb, pork := newProduct(t, "Lamb cutlets", 10), newProduct(t, "Pork belly", 0)
		cmd := checkout(t, "Sydney", "AUD",
			commands.CartLine{ProductID: lamb.ID(), Quantity: 2, UnitPrice: kernel.MustMoney("10.00")},
			commands.CartLine{ProductID: pork.ID(), Quantity: 1, UnitPrice: kernel.MustMoney("30.00")},
		)

		uow := newMockUoW()
		uow.expectTx(false)
		uow.Zones.On("ListActive", mock.Anything).Return([]*zone.Zone{innerSydney(t)}, nil).Once()
		uow.Products.On("GetForUpdate", mock.Anything, mock.Anything).
			Return([]*inventory.Product{lamb, pork}, nil).Once()

		h := commands.NewCreateOrderCommandHandler(uowFactory{uow}, commands.RetryPolicy{})
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Pork belly")
		assert.Equal(t, 10, lamb.Stock())
		uow.assertAll(t)
	})

	t.Run("should reject addresses outside every zone", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 10)
		cmd := checkout(t, "Parramatta", "AUD",
			commands.CartLine{ProductID: lamb.ID(), Quantity: 1, UnitPrice: kernel.MustMoney("10.00")})

		uow := newMockUoW()
		uow.expectTx(false)
		uow.Zones.On("ListActive", mock.Anything).Return([]*zone.Zone{innerSydney(t)}, nil).Once()

		h := commands.NewCreateOrderCommandHandler(uowFactory{uow}, commands.RetryPolicy{})
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, zone.ErrZoneNotServiced)
		uow.assertAll(t)
	})

	t.Run("should reject a currency without a stored rate", func(t *testing.T) {
		ctx := t.Context()
		cmd := checkout(t, "Sydney", "GBP",
			commands.CartLine{ProductID: kernel.NewUUID(), Quantity: 1, UnitPrice: kernel.MustMoney("10.00")})

		uow := newMockUoW()
		uow.expectTx(false)
		uow.Rates.On("Get", mock.Anything, currency.GBP).
			Return(currency.Rate{}, errs.NewObjectNotFoundError("exchange rate", "GBP")).Once()

		h := commands.NewCreateOrderCommandHandler(uowFactory{uow}, commands.RetryPolicy{})
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
		uow.assertAll(t)
	})

	t.Run("should replay the checkout after a version conflict", func(t *testing.T) {
		ctx := t.Context()
		lamb := newProduct(t, "Lamb cutlets", 10)
		first, second := reload(t, lamb), reload(t, lamb)
		cmd := checkout(t, "Sydney", "AUD",
			commands.CartLine{ProductID: lamb.ID(), Quantity: 3, UnitPrice: kernel.MustMoney("10.00")})

		uow := newMockUoW()
		uow.On("Begin", mock.Anything).Return(nil).Twice()
		uow.On("Rollback", mock.Anything).Return(nil).Twice()
		uow.On("Commit", mock.Anything).Return(nil).Once()
		uow.Zones.On("ListActive", mock.Anything).Return([]*zone.Zone{innerSydney(t)}, nil).Twice()
		uow.Products.On("GetForUpdate", mock.Anything, mock.Anything).Return([]*inventory.Product{first}, nil).Once()
		uow.Products.On("GetForUpdate", mock.Anything, mock.Anything).Return([]*inventory.Product{second}, nil).Once()
		uow.Products.On("Save", mock.Anything, first).
			Return(errs.NewConcurrencyConflictError("product", lamb.ID().String())).Once()
		uow.Products.On("Save", mock.Anything, second).Return(nil).Once()
		uow.Orders.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

		h := commands.NewCreateOrderCommandHandler(uowFactory{uow}, commands.RetryPolicy{Attempts: 2})
		_, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 7, second.Stock())
		uow.assertAll(t)
	})
}
