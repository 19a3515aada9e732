package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDForUpdate finds a product and takes a pessimistic row lock. The
// lock is held until the enclosing transaction ends; with lock_timeout set
// a blocked wait surfaces as ErrConcurrencyTimeout.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error)
}

// AdjustStock applies a signed delta to the stock counter. A negative delta
// is conditional on sufficient stock so the counter can never go below
// zero, even under concurrent writers. Returns the post-adjustment value.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}

	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing product from a failed stock condition
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return 0, translateError(err)
		}
		if count == 0 {
			return 0, shared.ErrNotFound
		}
		return 0, shared.ErrInsufficientStock
	}

	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Select("stock").
		First(&product, "id = ?", id).Error; err != nil {
		return 0, translateError(err)
	}
	return product.Stock, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
