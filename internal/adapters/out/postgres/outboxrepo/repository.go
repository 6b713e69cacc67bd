// Package outboxrepo stores domain events written in the same transaction as
// the state change that raised them, until the relay publishes them.
package outboxrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

type MessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Topic       string    `gorm:"type:varchar(128);not null"`
	Key         string    `gorm:"type:varchar(128);not null"`
	Payload     []byte    `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time `gorm:"not null;index:idx_outbox_unpublished,where:published_at IS NULL"`
	PublishedAt *time.Time
	Attempts    int       `gorm:"not null"`
	LastError   string    `gorm:"type:text;not null"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func Models() []any {
	return []any{&MessageDTO{}}
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		if err := m.ID.Validate(); err != nil {
			return err
		}
		if m.Topic == "" {
			return errs.NewValueIsRequiredError("topic")
		}
		dtos = append(dtos, fromPort(m))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// GetUnpublished returns the oldest unpublished messages and locks them.
// Rows locked by another relay are skipped, so relays may run side by side.
func (r *GormOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []MessageDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toPort(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"published_at": at,
		"attempts":     gorm.Expr("attempts + 1"),
		"last_error":   "",
	})
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, reason string) error {
	return r.update(ctx, id, map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
	})
}

func (r *GormOutboxRepository) update(ctx context.Context, id kernel.UUID, columns map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&MessageDTO{}).Where("id = ?", id.Bytes()).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox message", id.String())
	}
	return nil
}

func fromPort(m ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:          m.ID.Bytes(),
		Topic:       m.Topic,
		Key:         m.Key,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
		Attempts:    m.Attempts,
		LastError:   m.LastError,
	}
}

func toPort(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		ID:          id,
		Topic:       dto.Topic,
		Key:         dto.Key,
		Payload:     dto.Payload,
		CreatedAt:   dto.CreatedAt.UTC(),
		PublishedAt: dto.PublishedAt,
		Attempts:    dto.Attempts,
		LastError:   dto.LastError,
	}, nil
}
