package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// StockLedger is the only writer of product stock counters and the only
// creator of movement records. Every stock mutation pairs an atomic counter
// adjustment with an appended movement, so the two either commit or roll
// back together with the caller's transaction.
//
// The ledger operates on whatever repositories it was constructed with; an
// orchestrator running inside a transaction builds it from the tx-scoped
// repositories so all side effects join that transaction.
type StockLedger struct {
	products  catalog.ProductRepository
	movements MovementRepository
}

// NewStockLedger creates a StockLedger over the given repositories
func NewStockLedger(products catalog.ProductRepository, movements MovementRepository) *StockLedger {
	return &StockLedger{
		products:  products,
		movements: movements,
	}
}

// Reserve decrements the product's stock by qty and appends an outflow
// movement with reason "sale". The decrement is conditional: when fewer than
// qty units remain it fails with shared.ErrInsufficientStock and writes
// nothing. Returns the stock counter after the reservation.
func (l *StockLedger) Reserve(ctx context.Context, productID uuid.UUID, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}

	remaining, err := l.products.AdjustStock(ctx, productID, -qty)
	if err != nil {
		return 0, err
	}

	movement, err := NewMovement(productID, qty, MovementTypeOutflow, ReasonSale)
	if err != nil {
		return 0, err
	}
	if err := l.movements.Append(ctx, movement); err != nil {
		return 0, fmt.Errorf("failed to append outflow movement: %w", err)
	}

	return remaining, nil
}

// Release increments the product's stock by qty and appends an inflow
// movement with reason "adjustment". No upper bound is enforced.
func (l *StockLedger) Release(ctx context.Context, productID uuid.UUID, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}

	remaining, err := l.products.AdjustStock(ctx, productID, qty)
	if err != nil {
		return 0, err
	}

	movement, err := NewMovement(productID, qty, MovementTypeInflow, ReasonAdjustment)
	if err != nil {
		return 0, err
	}
	if err := l.movements.Append(ctx, movement); err != nil {
		return 0, fmt.Errorf("failed to append inflow movement: %w", err)
	}

	return remaining, nil
}

// HasOutflowSince reports whether a sale outflow for the product exists at
// or after the given instant. Callers use it to detect that a deduction was
// already applied by an earlier attempt.
func (l *StockLedger) HasOutflowSince(ctx context.Context, productID uuid.UUID, since time.Time) (bool, error) {
	return l.movements.ExistsOutflowSince(ctx, productID, since)
}
