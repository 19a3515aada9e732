package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append inserts a movement record
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.Movement) error {
	return translateError(r.db.WithContext(ctx).Create(movement).Error)
}

// ExistsOutflowSince reports whether any sale outflow for the product
// occurred at or after the given time. Adjustment outflows do not count.
// Served by the composite index on (product_id, movement_type,
// occurred_at).
func (r *GormMovementRepository) ExistsOutflowSince(ctx context.Context, productID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("product_id = ? AND movement_type = ? AND reason = ? AND occurred_at >= ?",
			productID, inventory.MovementTypeOutflow, inventory.ReasonSale, since).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// FindByProduct returns movements for a product, newest first
func (r *GormMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	offset := (filter.Page - 1) * filter.PageSize
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&movements).Error; err != nil {
		return nil, translateError(err)
	}
	return movements, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
