package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/zone"
)

const defaultExpiry = 30 * time.Minute

func defaultTime() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newProduct(t *testing.T, name string, stock int) *inventory.Product {
	t.Helper()
	p, err := inventory.RestoreProduct(kernel.NewUUID(), name, stock, inventory.Meta{}, 1)
	require.NoError(t, err)
	return p
}

// reload returns a fresh copy of p, the way a repository would on a new transaction.
func reload(t *testing.T, p *inventory.Product) *inventory.Product {
	t.Helper()
	c, err := inventory.RestoreProduct(p.ID(), p.Name(), p.Stock(), p.Meta(), p.Version())
	require.NoError(t, err)
	return c
}

// pickupOrder places a pending pickup order with two units of every product.
func pickupOrder(t *testing.T, customer kernel.Actor, products ...*inventory.Product) *order.Order {
	t.Helper()
	items := make([]order.ItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, order.ItemInput{
			ProductID: p.ID(),
			Name:      p.Name(),
			Quantity:  2,
			UnitPrice: kernel.MustMoney("10.00"),
		})
	}
	at := time.Now().UTC()
	o, err := order.Place(order.Draft{
		ID:       kernel.NewUUID(),
		Number:   order.GenerateNumber(at),
		Customer: customer,
		Items:    items,
		Method:   order.MethodPickup,
		Quote:    zone.PickupQuote(),
		Currency: currency.BaseSnapshot(),
		PlacedAt: at,
	})
	require.NoError(t, err)
	o.PullHistory()
	o.PullEvents()
	return o
}

func innerSydney(t *testing.T) *zone.Zone {
	t.Helper()
	threshold := kernel.MustMoney("200.00")
	z, err := zone.NewZone(kernel.NewUUID(), "Inner Sydney", []string{"Sydney", "2000", "Newtown"},
		kernel.MustMoney("12.95"), &threshold, 1, true)
	require.NoError(t, err)
	return z
}
