package wasterepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
	"storefront/internal/pkg/errs"
)

// GormWasteRepository implements ports.WasteRepository using GORM.
type GormWasteRepository struct {
	db *gorm.DB
}

func NewGormWasteRepository(db *gorm.DB) *GormWasteRepository {
	return &GormWasteRepository{db: db}
}

func (r *GormWasteRepository) Add(ctx context.Context, entry *waste.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormWasteRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*waste.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("waste entry", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Update records the decision. Only undecided rows match, so a second
// decision, even from a concurrent transaction, yields waste.ErrAlreadyDecided.
func (r *GormWasteRepository) Update(ctx context.Context, entry *waste.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ? AND approved_at IS NULL AND rejected_at IS NULL", dto.ID).
		Updates(map[string]any{
			"approved_at":     dto.ApprovedAt,
			"approved_by":     dto.ApprovedBy,
			"rejected_at":     dto.RejectedAt,
			"rejected_by":     dto.RejectedBy,
			"rejection_notes": dto.RejectionNotes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return waste.ErrAlreadyDecided
	}
	return nil
}
