package zonerepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/core/domain/model/zone"
)

// GormZoneRepository implements ports.ZoneRepository using GORM.
type GormZoneRepository struct {
	db *gorm.DB
}

func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// ListActive returns active zones ordered by name, so resolution is stable
// when localities overlap.
func (r *GormZoneRepository) ListActive(ctx context.Context) ([]*zone.Zone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*zone.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// Upsert inserts the zone or replaces the zone with the same name, keeping its id.
func (r *GormZoneRepository) Upsert(ctx context.Context, z *zone.Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}

	dto := fromDomain(z)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"suburbs", "delivery_fee", "free_delivery_threshold", "estimated_days", "is_active", "updated_at",
		}),
	}).Create(&dto).Error
}
