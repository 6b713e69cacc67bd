package commands_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

func TestUpsertZoneCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	threshold := kernel.MustMoney("150.00")
	cmd, err := commands.NewUpsertZoneCommand(newActor(t, kernel.RoleAdmin), "Eastern Suburbs",
		[]string{"Bondi", "2026"}, kernel.MustMoney("9.95"), &threshold, 2, true)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(true)
	uow.Zones.On("Upsert", mock.Anything, cmd.Zone()).Return(nil).Once()

	h := commands.NewUpsertZoneCommandHandler(catalogFactory{uow})
	require.NoError(t, h.Handle(ctx, cmd))
	assert.True(t, cmd.Zone().Covers("bondi"))
	uow.assertAll(t)
}

func TestNewUpsertZoneCommand_RequiresAdmin(t *testing.T) {
	_, err := commands.NewUpsertZoneCommand(newActor(t, kernel.RoleStaff), "Eastern Suburbs",
		[]string{"Bondi"}, kernel.MustMoney("9.95"), nil, 2, true)
	require.ErrorIs(t, err, kernel.ErrUnauthorizedActor)
}

func TestUpsertExchangeRateCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewUpsertExchangeRateCommand(newActor(t, kernel.RoleAdmin), "usd", decimal.RequireFromString("0.655432"))
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(true)
	uow.Rates.On("Upsert", mock.Anything, currency.USD, cmd.Rate(), mock.AnythingOfType("time.Time")).Return(nil).Once()

	h := commands.NewUpsertExchangeRateCommandHandler(catalogFactory{uow})
	require.NoError(t, h.Handle(ctx, cmd))
	uow.assertAll(t)
}

func TestNewUpsertExchangeRateCommand_Validation(t *testing.T) {
	admin := newActor(t, kernel.RoleAdmin)

	_, err := commands.NewUpsertExchangeRateCommand(admin, "AUD", decimal.NewFromInt(2))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewUpsertExchangeRateCommand(admin, "JPY", decimal.NewFromInt(2))
	require.ErrorIs(t, err, currency.ErrUnsupportedCurrency)

	_, err = commands.NewUpsertExchangeRateCommand(admin, "NZD", decimal.Zero)
	require.Error(t, err)
}
