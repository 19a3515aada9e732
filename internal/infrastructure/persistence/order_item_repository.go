package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/backend/internal/domain/ordering"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// GormOrderItemRepository implements ordering.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// FindByOrderAndProductForUpdate finds a line with a pessimistic row lock
func (r *GormOrderItemRepository) FindByOrderAndProductForUpdate(ctx context.Context, orderID, productID uuid.UUID) (*ordering.OrderItem, error) {
	var item ordering.OrderItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// FindByOrder returns all lines of an order
func (r *GormOrderItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderItem, error) {
	var items []ordering.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// Create inserts a new line
func (r *GormOrderItemRepository) Create(ctx context.Context, item *ordering.OrderItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

// UpdateQuantity overwrites the quantity of an existing line
func (r *GormOrderItemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int64) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.OrderItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a line
func (r *GormOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.OrderItem{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ordering.OrderItemRepository = (*GormOrderItemRepository)(nil)
