// Package paymentrepo persists gateway payment records. A partial unique index
// allows at most one completed payment per order.
package paymentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/core/domain/model/currency"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

type PaymentDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_payments_one_completed,where:status = 'completed'"`
	Gateway       string          `gorm:"type:varchar(32);not null"`
	TransactionID string          `gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency      string          `gorm:"type:char(3);not null"`
	Status        string          `gorm:"type:varchar(16);not null"`
	Response      []byte          `gorm:"type:jsonb"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func Models() []any {
	return []any{&PaymentDTO{}}
}

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Add inserts the payment. A second completed payment for the same order is
// reported as order.ErrPaymentAlreadyCompleted.
func (r *GormPaymentRepository) Add(ctx context.Context, p *order.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.ErrPaymentAlreadyCompleted
		}
		return err
	}
	return nil
}

// Update writes the status change of a recorded payment.
func (r *GormPaymentRepository) Update(ctx context.Context, p *order.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&PaymentDTO{}).
		Where("id = ?", p.ID().Bytes()).
		Updates(map[string]any{
			"status":     string(p.Status()),
			"updated_at": p.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment", p.ID().String())
	}
	return nil
}

func (r *GormPaymentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PaymentDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	payments := make([]*order.Payment, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func fromDomain(p *order.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID().Bytes(),
		OrderID:       p.OrderID().Bytes(),
		Gateway:       string(p.Gateway()),
		TransactionID: p.TransactionID(),
		Amount:        p.Amount().Decimal(),
		Currency:      string(p.Currency()),
		Status:        string(p.Status()),
		Response:      p.Response(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toDomain(dto PaymentDTO) (*order.Payment, error) {
	id, idErr := kernel.UUIDFromGoogle(dto.ID)
	orderID, orderErr := kernel.UUIDFromGoogle(dto.OrderID)
	amount, amountErr := kernel.NewMoney(dto.Amount)
	if err := errors.Join(idErr, orderErr, amountErr); err != nil {
		return nil, err
	}

	return order.RestorePayment(
		id, orderID,
		order.Gateway(dto.Gateway),
		dto.TransactionID,
		amount,
		currency.Code(dto.Currency),
		order.PaymentStatus(dto.Status),
		dto.Response,
		dto.CreatedAt.UTC(), dto.UpdatedAt.UTC(),
	)
}
