// Package raterepo stores AUD-based exchange rates, one row per target currency.
package raterepo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/pkg/errs"
)

type RateDTO struct {
	TargetCurrency string          `gorm:"type:char(3);primaryKey"`
	Rate           decimal.Decimal `gorm:"type:numeric(10,6);not null;check:rate > 0"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

func (RateDTO) TableName() string {
	return "exchange_rates"
}

func Models() []any {
	return []any{&RateDTO{}}
}

// GormExchangeRateRepository implements ports.ExchangeRateRepository using GORM.
type GormExchangeRateRepository struct {
	db *gorm.DB
}

func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

func (r *GormExchangeRateRepository) Get(ctx context.Context, target currency.Code) (currency.Rate, error) {
	var dto RateDTO
	if err := r.db.WithContext(ctx).First(&dto, "target_currency = ?", string(target)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return currency.Rate{}, errs.NewObjectNotFoundError("exchange rate", string(target))
		}
		return currency.Rate{}, err
	}
	return currency.NewRate(dto.Rate)
}

func (r *GormExchangeRateRepository) Upsert(ctx context.Context, target currency.Code, rate currency.Rate, at time.Time) error {
	dto := RateDTO{
		TargetCurrency: string(target),
		Rate:           rate.Decimal(),
		UpdatedAt:      at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
	}).Create(&dto).Error
}
