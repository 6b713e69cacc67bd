package productrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// GormProductRepository implements ports.ProductRepository using GORM.
type GormProductRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormProductRepository(db *gorm.DB, tracker aggregateTracker) *GormProductRepository {
	return &GormProductRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the product together with any opening stock log rows.
func (r *GormProductRepository) Add(ctx context.Context, p *inventory.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(p)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err = r.appendLogs(ctx, p); err != nil {
		return err
	}

	r.tracker.TrackAggregate(p.ID(), p)
	return nil
}

func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetForUpdate locks the rows in id order so that concurrent checkouts over
// overlapping carts cannot deadlock. Every id must exist.
func (r *GormProductRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*inventory.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", raw).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]*inventory.Product, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		found[dto.ID] = p
	}

	products := make([]*inventory.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := found[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		products = append(products, p)
	}
	return products, nil
}

// Save writes the stock level under a version check and appends the pending
// log rows. A stale version yields errs.ErrConcurrencyConflict.
func (r *GormProductRepository) Save(ctx context.Context, p *inventory.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(p)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"name":       dto.Name,
			"stock":      dto.Stock,
			"meta":       dto.Meta,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("product", p.ID().String())
	}

	p.AdvanceVersion()
	if err = r.appendLogs(ctx, p); err != nil {
		return err
	}

	r.tracker.TrackAggregate(p.ID(), p)
	return nil
}

func (r *GormProductRepository) appendLogs(ctx context.Context, p *inventory.Product) error {
	logs := logsFromDomain(p.PullLogs())
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}
