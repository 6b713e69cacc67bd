package guard_test

import (
	"errors"
	"testing"

	"storefront/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("quote must be created via NewQuote")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type cancelCommand struct {
		reason string
		guard  guard.ConstructorGuard
	}
	errCommandNotConstructed := errors.New("cancelCommand must be created via newCancelCommand")

	newCancelCommand := func(reason string) (cancelCommand, error) {
		if reason == "" {
			return cancelCommand{}, errors.New("reason is required")
		}
		return cancelCommand{reason: reason, guard: guard.NewConstructorGuard()}, nil
	}

	cmd, err := newCancelCommand("customer changed mind")
	require.NoError(t, err)
	require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))

	literal := cancelCommand{reason: "bypassed"}
	require.ErrorIs(t, literal.guard.Validate(errCommandNotConstructed), errCommandNotConstructed)

	_, err = newCancelCommand("")
	require.Error(t, err)
}
