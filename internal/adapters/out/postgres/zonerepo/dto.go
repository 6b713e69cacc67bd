// Package zonerepo persists delivery zones. The suburbs column is a Postgres
// text array holding normalised suburb names and postcodes.
package zonerepo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/zone"
)

type ZoneDTO struct {
	ID                    uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name                  string              `gorm:"type:varchar(128);not null;uniqueIndex"`
	Suburbs               pq.StringArray      `gorm:"type:text[];not null"`
	DeliveryFee           decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	FreeDeliveryThreshold decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	EstimatedDays         int                 `gorm:"not null"`
	IsActive              bool                `gorm:"not null;index"`
	UpdatedAt             time.Time
}

func (ZoneDTO) TableName() string {
	return "delivery_zones"
}

func Models() []any {
	return []any{&ZoneDTO{}}
}

func fromDomain(z *zone.Zone) ZoneDTO {
	dto := ZoneDTO{
		ID:            z.ID().Bytes(),
		Name:          z.Name(),
		Suburbs:       pq.StringArray(z.Localities()),
		DeliveryFee:   z.Fee().Decimal(),
		EstimatedDays: z.EstimatedDays(),
		IsActive:      z.IsActive(),
		UpdatedAt:     time.Now().UTC(),
	}
	if t := z.FreeDeliveryThreshold(); t != nil {
		dto.FreeDeliveryThreshold = decimal.NewNullDecimal(t.Decimal())
	}
	return dto
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, idErr := kernel.UUIDFromGoogle(dto.ID)
	fee, feeErr := kernel.NewMoney(dto.DeliveryFee)
	if err := errors.Join(idErr, feeErr); err != nil {
		return nil, err
	}

	var threshold *kernel.Money
	if dto.FreeDeliveryThreshold.Valid {
		t, err := kernel.NewMoney(dto.FreeDeliveryThreshold.Decimal)
		if err != nil {
			return nil, err
		}
		threshold = &t
	}
	return zone.RestoreZone(id, dto.Name, dto.Suburbs, fee, threshold, dto.EstimatedDays, dto.IsActive)
}
