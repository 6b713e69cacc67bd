package kernel_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"customer", "staff", "admin"} {
		r, err := kernel.ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(r))
	}

	_, err := kernel.ParseRole("system")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid, "system role cannot come from a token")
}

func TestActor(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("admin counts as staff", func(t *testing.T) {
		a, err := kernel.NewActor(id, kernel.RoleAdmin)

		require.NoError(t, err)
		assert.True(t, a.IsStaff())
		assert.True(t, a.IsAdmin())
		assert.True(t, a.Is(id))
	})

	t.Run("customer is not staff", func(t *testing.T) {
		a, _ := kernel.NewActor(id, kernel.RoleCustomer)

		assert.False(t, a.IsStaff())
		assert.True(t, a.IsCustomer())
	})

	t.Run("system actor has no id", func(t *testing.T) {
		a := kernel.SystemActor()

		assert.Nil(t, a.ID())
		assert.True(t, a.IsSystem())
		assert.False(t, a.Is(id))
		require.NoError(t, a.Validate())
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var a kernel.Actor

		require.ErrorIs(t, a.Validate(), errs.ErrValueIsRequired)
	})

	t.Run("unauthorized wraps sentinel", func(t *testing.T) {
		a, _ := kernel.NewActor(id, kernel.RoleCustomer)

		err := a.Unauthorized("approve waste")

		require.ErrorIs(t, err, kernel.ErrUnauthorizedActor)
		assert.Contains(t, err.Error(), "customer may not approve waste")
	})
}
