package services_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
	"storefront/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string, fee string, threshold string, active bool, localities ...string) *zone.Zone {
	t.Helper()
	var th *kernel.Money
	if threshold != "" {
		m := kernel.MustMoney(threshold)
		th = &m
	}
	z, err := zone.NewZone(kernel.NewUUID(), name, localities, kernel.MustMoney(fee), th, 1, active)
	require.NoError(t, err)
	return z
}

func TestZoneResolver_Resolve(t *testing.T) {
	inner := mustZone(t, "Inner Sydney", "12.95", "200.00", true, "Newtown", "Surry Hills", "2042")
	west := mustZone(t, "Western Sydney", "19.95", "", true, "Parramatta", "Newtown")
	closed := mustZone(t, "Eastern Sydney", "9.95", "", false, "Bondi")
	zones := []*zone.Zone{west, closed, inner}
	resolver := services.NewZoneResolver()

	t.Run("subtotal 210 to Newtown delivers free", func(t *testing.T) {
		q, err := resolver.Resolve(zones, "Newtown", "", kernel.MustMoney("210.00"))

		require.NoError(t, err)
		assert.True(t, q.Delivers)
		assert.True(t, q.Fee.IsZero())
		assert.True(t, q.ZoneID.IsEqual(inner.ID()))
	})

	t.Run("subtotal 150 to Newtown pays 12.95", func(t *testing.T) {
		q, err := resolver.Resolve(zones, "newtown ", "", kernel.MustMoney("150.00"))

		require.NoError(t, err)
		assert.Equal(t, "12.95", q.Fee.String())
		assert.Equal(t, "Inner Sydney", q.ZoneName, "lowest zone name wins on overlap")
	})

	t.Run("postcode is used when suburb is unknown", func(t *testing.T) {
		q, err := resolver.Resolve(zones, "Enmore", "2042", kernel.MustMoney("10"))

		require.NoError(t, err)
		assert.Equal(t, "Inner Sydney", q.ZoneName)
	})

	t.Run("inactive zones are skipped", func(t *testing.T) {
		_, err := resolver.Resolve(zones, "Bondi", "", kernel.MustMoney("10"))

		require.ErrorIs(t, err, zone.ErrZoneNotServiced)
	})

	t.Run("unknown suburb is not serviced", func(t *testing.T) {
		_, err := resolver.Resolve(zones, "Katoomba", "2780", kernel.MustMoney("10"))

		require.ErrorIs(t, err, zone.ErrZoneNotServiced)
	})
}
