package ordering

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// ErrItemNotFound is returned when an order has no line for a product
var ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Product is not on the order")

// StockShortfall describes one product whose availability was below the
// quantity an order line required.
type StockShortfall struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Requested int64     `json:"requested"`
	Available int64     `json:"available"`
}

// InsufficientStockError reports every shortfall found while checking an
// order, not just the first one. It carries the INSUFFICIENT_STOCK code so
// the HTTP boundary maps it like any other business-rule violation.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.Name, s.Requested, s.Available))
	}
	return fmt.Sprintf("insufficient stock: %s", strings.Join(parts, "; "))
}

// Code returns the domain error code
func (e *InsufficientStockError) Code() string {
	return shared.ErrInsufficientStock.Code
}
