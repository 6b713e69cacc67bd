// Package wasterepo persists waste log entries and their approval decision.
package wasterepo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/waste"
)

type EntryDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoggedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       int             `gorm:"not null;check:quantity > 0"`
	Reason         string          `gorm:"type:varchar(64);not null"`
	Notes          string          `gorm:"type:text;not null"`
	UnitCost       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalCost      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID      `gorm:"type:uuid"`
	RejectedAt     *time.Time
	RejectedBy     *uuid.UUID      `gorm:"type:uuid"`
	RejectionNotes string          `gorm:"type:text;not null"`
}

func (EntryDTO) TableName() string {
	return "waste_logs"
}

func Models() []any {
	return []any{&EntryDTO{}}
}

func fromDomain(e *waste.Entry) EntryDTO {
	dto := EntryDTO{
		ID:             e.ID().Bytes(),
		ProductID:      e.ProductID().Bytes(),
		LoggedBy:       e.LoggedBy().Bytes(),
		Quantity:       e.Quantity(),
		Reason:         e.Reason(),
		Notes:          e.Notes(),
		UnitCost:       e.UnitCost().Decimal(),
		TotalCost:      e.TotalCost().Decimal(),
		CreatedAt:      e.CreatedAt(),
		RejectionNotes: e.RejectionNotes(),
	}
	dto.ApprovedAt, dto.ApprovedBy = decisionColumns(e.Approved())
	dto.RejectedAt, dto.RejectedBy = decisionColumns(e.Rejected())
	return dto
}

func decisionColumns(d *waste.Decision) (*time.Time, *uuid.UUID) {
	if d == nil {
		return nil, nil
	}
	at, by := d.At, d.By.Bytes()
	return &at, &by
}

func toDomain(dto EntryDTO) (*waste.Entry, error) {
	id, idErr := kernel.UUIDFromGoogle(dto.ID)
	productID, productErr := kernel.UUIDFromGoogle(dto.ProductID)
	loggedBy, loggedErr := kernel.UUIDFromGoogle(dto.LoggedBy)
	unitCost, costErr := kernel.NewMoney(dto.UnitCost)
	approved, approvedErr := decisionToDomain(dto.ApprovedAt, dto.ApprovedBy)
	rejected, rejectedErr := decisionToDomain(dto.RejectedAt, dto.RejectedBy)
	if err := errors.Join(idErr, productErr, loggedErr, costErr, approvedErr, rejectedErr); err != nil {
		return nil, err
	}

	return waste.RestoreEntry(
		id, productID, loggedBy,
		dto.Quantity,
		dto.Reason, dto.Notes,
		unitCost,
		dto.CreatedAt.UTC(),
		approved, rejected,
		dto.RejectionNotes,
	)
}

func decisionToDomain(at *time.Time, by *uuid.UUID) (*waste.Decision, error) {
	if at == nil || by == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*by)
	if err != nil {
		return nil, err
	}
	return &waste.Decision{At: at.UTC(), By: id}, nil
}
