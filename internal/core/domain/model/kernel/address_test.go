package kernel_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should normalise local mobile to E.164", func(t *testing.T) {
		a, err := kernel.NewAddress(" 12 King St ", "Newtown", "2042", "0412 345 678")

		require.NoError(t, err)
		assert.Equal(t, "12 King St", a.Street())
		assert.Equal(t, "+61412345678", a.Phone())
	})

	t.Run("should allow empty phone", func(t *testing.T) {
		a, err := kernel.NewAddress("1 George St", "", "2000", "")

		require.NoError(t, err)
		assert.Empty(t, a.Phone())
		assert.Equal(t, "2000", a.Postcode())
	})

	t.Run("should collect every problem", func(t *testing.T) {
		_, err := kernel.NewAddress("", "", "", "123")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "street")
		assert.Contains(t, err.Error(), "suburb or postcode")
	})
}
