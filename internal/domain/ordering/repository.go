package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for order aggregates
type OrderRepository interface {
	// FindByID loads an order with its items, including soft-deleted orders
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll returns orders matching the filter, newest first.
	// Soft-deleted orders are included.
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// Create inserts a new order
	Create(ctx context.Context, order *Order) error

	// SaveWithLock persists the order using optimistic locking. The aggregate
	// version is incremented and the update is conditional on the previous
	// version still being current; a stale version yields
	// shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, order *Order) error
}

// OrderItemRepository defines persistence operations for order lines
type OrderItemRepository interface {
	// FindByOrderAndProductForUpdate looks up a line with a pessimistic row
	// lock, or shared.ErrNotFound if no line exists for the pair
	FindByOrderAndProductForUpdate(ctx context.Context, orderID, productID uuid.UUID) (*OrderItem, error)

	// FindByOrder returns all lines of an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// Create inserts a new line
	Create(ctx context.Context, item *OrderItem) error

	// UpdateQuantity overwrites the quantity of an existing line
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int64) error

	// Delete removes a line
	Delete(ctx context.Context, id uuid.UUID) error
}
