package kernel_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDFromString(t *testing.T) {
	t.Run("should parse canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
		require.NoError(t, id.Validate())
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})
}

func TestUUIDFromBytes_RejectsNil(t *testing.T) {
	_, err := kernel.UUIDFromBytes(uuid.Nil[:])

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID

	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_Compare(t *testing.T) {
	low, _ := kernel.UUIDFromString("00000000-0000-0000-0000-000000000001")
	high, _ := kernel.UUIDFromString("ffffffff-0000-0000-0000-000000000001")

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(low))
}

func TestSortUUIDs(t *testing.T) {
	a, _ := kernel.UUIDFromString("10000000-0000-0000-0000-000000000000")
	b, _ := kernel.UUIDFromString("20000000-0000-0000-0000-000000000000")
	c, _ := kernel.UUIDFromString("30000000-0000-0000-0000-000000000000")
	in := []kernel.UUID{c, a, b, a}

	sorted := kernel.SortUUIDs(in)

	require.Len(t, sorted, 3)
	assert.True(t, sorted[0].IsEqual(a))
	assert.True(t, sorted[1].IsEqual(b))
	assert.True(t, sorted[2].IsEqual(c))
	assert.True(t, in[0].IsEqual(c), "input must not be reordered")
}

func TestOptionalUUID(t *testing.T) {
	got, err := kernel.OptionalUUID(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw := uuid.New()
	got, err = kernel.OptionalUUID(&raw)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, raw, *kernel.RawUUID(got))
}
