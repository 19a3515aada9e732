package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for Product.
//
// FindByIDForUpdate must acquire a pessimistic row lock (SELECT ... FOR
// UPDATE) held until the enclosing transaction ends. AdjustStock must be an
// atomic conditional update: a negative delta only applies when the row still
// holds enough stock, so two concurrent reservations can never drive the
// counter below zero.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and locks its row for the
	// duration of the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// AdjustStock atomically applies delta to the product's stock counter.
	// For negative deltas the update is conditional on sufficient stock and
	// returns shared.ErrInsufficientStock when the condition fails.
	// Returns the stock counter after the adjustment.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}
