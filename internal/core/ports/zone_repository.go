package ports

import (
	"context"

	"storefront/internal/core/domain/model/zone"
)

type ZoneRepository interface {
	// ListActive returns every active zone.
	ListActive(ctx context.Context) ([]*zone.Zone, error)

	// Upsert inserts or replaces the zone with the same name.
	Upsert(ctx context.Context, z *zone.Zone) error
}
