package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateSource struct{ mock.Mock }

func (m *MockRateSource) Get(ctx context.Context, target currency.Code) (currency.Rate, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(currency.Rate), args.Error(1)
}

func TestCurrencySnapshotter_Lock(t *testing.T) {
	snapshotter := services.NewCurrencySnapshotter()

	t.Run("AUD never reads the rate table", func(t *testing.T) {
		rates := new(MockRateSource)

		snap, err := snapshotter.Lock(t.Context(), "aud", rates)

		require.NoError(t, err)
		assert.Equal(t, currency.AUD, snap.Code())
		assert.Equal(t, "1.000000", snap.Rate().String())
		rates.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("stored rate is locked", func(t *testing.T) {
		rate, _ := currency.NewRate(decimal.RequireFromString("1.083"))
		rates := new(MockRateSource)
		rates.On("Get", mock.Anything, currency.NZD).Return(rate, nil).Once()

		snap, err := snapshotter.Lock(t.Context(), "NZD", rates)

		require.NoError(t, err)
		assert.Equal(t, "1.083000", snap.Rate().String())
		rates.AssertExpectations(t)
	})

	t.Run("missing rate is unsupported", func(t *testing.T) {
		rates := new(MockRateSource)
		rates.On("Get", mock.Anything, currency.GBP).
			Return(currency.Rate{}, errs.NewObjectNotFoundError("exchange rate", "GBP")).Once()

		_, err := snapshotter.Lock(t.Context(), "GBP", rates)

		require.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
	})

	t.Run("unknown code is unsupported", func(t *testing.T) {
		_, err := snapshotter.Lock(t.Context(), "JPY", new(MockRateSource))

		require.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
	})

	t.Run("storage errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		rates := new(MockRateSource)
		rates.On("Get", mock.Anything, currency.USD).Return(currency.Rate{}, boom).Once()

		_, err := snapshotter.Lock(t.Context(), "USD", rates)

		require.ErrorIs(t, err, boom)
	})
}
