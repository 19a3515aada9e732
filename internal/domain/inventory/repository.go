package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// MovementRepository defines the persistence interface for the append-only
// movement log. Movements are never updated or deleted.
type MovementRepository interface {
	// Append persists a new movement record
	Append(ctx context.Context, movement *Movement) error

	// ExistsOutflowSince reports whether an outflow movement with reason
	// ReasonSale exists for the product at or after the given instant
	ExistsOutflowSince(ctx context.Context, productID uuid.UUID, since time.Time) (bool, error)

	// FindByProduct returns movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Movement, error)
}
