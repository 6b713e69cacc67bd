// Package productrepo persists the stock projection of products and appends
// inventory log rows in the same transaction as the stock change.
package productrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
)

type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Stock     int       `gorm:"not null;check:stock >= 0"`
	Meta      []byte    `gorm:"type:jsonb;not null"`
	Version   int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

// LogDTO is append-only. Seq breaks ties between rows with equal created_at.
type LogDTO struct {
	Seq         int64      `gorm:"primaryKey;autoIncrement"`
	ID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_logs_product_created,priority:1"`
	Type        string     `gorm:"type:varchar(16);not null"`
	Quantity    int        `gorm:"not null;check:quantity >= 0"`
	StockBefore int        `gorm:"not null"`
	StockAfter  int        `gorm:"not null;check:stock_after >= 0"`
	Reason      string     `gorm:"type:text;not null"`
	Reference   string     `gorm:"type:varchar(128);not null"`
	ActorID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_inventory_logs_product_created,priority:2"`
}

func (LogDTO) TableName() string {
	return "inventory_logs"
}

func Models() []any {
	return []any{&ProductDTO{}, &LogDTO{}}
}

func fromDomain(p *inventory.Product) (ProductDTO, error) {
	meta, err := json.Marshal(p.Meta())
	if err != nil {
		return ProductDTO{}, err
	}
	return ProductDTO{
		ID:      p.ID().Bytes(),
		Name:    p.Name(),
		Stock:   p.Stock(),
		Meta:    meta,
		Version: p.Version(),
	}, nil
}

func toDomain(dto ProductDTO) (*inventory.Product, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	var meta inventory.Meta
	if len(dto.Meta) > 0 {
		if err = json.Unmarshal(dto.Meta, &meta); err != nil {
			return nil, err
		}
	}
	return inventory.RestoreProduct(id, dto.Name, dto.Stock, meta, dto.Version)
}

func logsFromDomain(entries []inventory.LogEntry) []LogDTO {
	out := make([]LogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, LogDTO{
			ID:          e.ID.Bytes(),
			ProductID:   e.ProductID.Bytes(),
			Type:        string(e.Type),
			Quantity:    e.Quantity,
			StockBefore: e.StockBefore,
			StockAfter:  e.StockAfter,
			Reason:      e.Reason,
			Reference:   e.Reference,
			ActorID:     kernel.RawUUID(e.ActorID),
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
