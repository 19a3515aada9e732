package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdesk/backend/internal/domain/ordering"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items. Soft-deleted orders are included.
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAll returns orders matching the filter, newest first. Soft-deleted
// orders remain visible; their deleted_at marks them.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[ordering.Order], error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&ordering.Order{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, translateError(err)
	}

	var orders []ordering.Order
	offset := (filter.Page - 1) * filter.PageSize
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&ordering.Order{}), filter).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, translateError(err)
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	return translateError(r.db.WithContext(ctx).Omit("Items").Create(order).Error)
}

// SaveWithLock saves the order with optimistic locking. The update is
// conditional on the version the aggregate was loaded at; zero rows
// affected means another transaction won the race.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	order.IncrementVersion()
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"customer_name":    order.CustomerName,
			"total":            order.Total,
			"status":           order.Status,
			"last_change_at":   order.LastChangeAt,
			"last_change_type": order.LastChangeType,
			"deleted_at":       order.DeletedAt,
			"version":          order.Version,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if changeType, ok := filter.Filters["last_change_type"]; ok {
		query = query.Where("last_change_type = ?", changeType)
	}
	if from, ok := filter.Filters["created_from"]; ok {
		query = query.Where("created_at >= ?", from)
	}
	if before, ok := filter.Filters["created_before"]; ok {
		query = query.Where("created_at < ?", before)
	}
	if from, ok := filter.Filters["last_change_from"]; ok {
		query = query.Where("last_change_at >= ?", from)
	}
	if before, ok := filter.Filters["last_change_before"]; ok {
		query = query.Where("last_change_at < ?", before)
	}
	return query
}

var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
