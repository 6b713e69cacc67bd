package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/pkg/errs"
)

func TestRetryPolicy_Do(t *testing.T) {
	conflict := errs.NewConcurrencyConflictError("order", "42")

	t.Run("should stop after the configured attempts", func(t *testing.T) {
		calls := 0
		err := commands.RetryPolicy{Attempts: 3}.Do(t.Context(), func(context.Context) error {
			calls++
			return conflict
		})

		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("should not retry other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := commands.RetryPolicy{}.Do(t.Context(), func(context.Context) error {
			calls++
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("should return once an attempt succeeds", func(t *testing.T) {
		calls := 0
		err := commands.RetryPolicy{}.Do(t.Context(), func(context.Context) error {
			calls++
			if calls < 2 {
				return conflict
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}
