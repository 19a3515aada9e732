package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// ItemStore maintains the invariant of one line per (order, product) pair.
// Both operations take a pessimistic lock on the line so concurrent
// mutations of the same pair serialize inside the enclosing transaction.
type ItemStore struct {
	items OrderItemRepository
}

// NewItemStore creates a new item store service
func NewItemStore(items OrderItemRepository) *ItemStore {
	return &ItemStore{items: items}
}

// MergeResult reports the effect of an AddOrMerge call
type MergeResult struct {
	Item    *OrderItem
	Merged  bool
	Charged decimal.Decimal
}

// AddOrMerge adds quantity of a product to an order. A new line snapshots
// the given price; an existing line grows by quantity and keeps its original
// snapshot price regardless of the price passed in. Charged is the line
// total delta priced at the snapshot that actually applied.
func (s *ItemStore) AddOrMerge(ctx context.Context, orderID, productID uuid.UUID, quantity int64, price decimal.Decimal) (*MergeResult, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	existing, err := s.items.FindByOrderAndProductForUpdate(ctx, orderID, productID)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != shared.ErrNotFound.Code {
			return nil, err
		}

		item, err := NewOrderItem(orderID, productID, quantity, price)
		if err != nil {
			return nil, err
		}
		if err := s.items.Create(ctx, item); err != nil {
			return nil, err
		}
		return &MergeResult{
			Item:    item,
			Merged:  false,
			Charged: price.Mul(decimal.NewFromInt(quantity)),
		}, nil
	}

	newQuantity := existing.Quantity + quantity
	if err := s.items.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
		return nil, err
	}
	existing.Quantity = newQuantity
	return &MergeResult{
		Item:    existing,
		Merged:  true,
		Charged: existing.Price.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// DecreaseResult reports the effect of a Decrease call
type DecreaseResult struct {
	Removed  int64
	Refunded decimal.Decimal
	Price    decimal.Decimal
	Deleted  bool
}

// Decrease removes up to quantity units of a product from an order. A
// request above the held quantity clamps to the held quantity rather than
// failing; removing every held unit deletes the line. Refunded is the line
// total delta at the snapshot price.
func (s *ItemStore) Decrease(ctx context.Context, orderID, productID uuid.UUID, quantity int64) (*DecreaseResult, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	item, err := s.items.FindByOrderAndProductForUpdate(ctx, orderID, productID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	removed := quantity
	if removed > item.Quantity {
		removed = item.Quantity
	}

	remaining := item.Quantity - removed
	if remaining == 0 {
		if err := s.items.Delete(ctx, item.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.items.UpdateQuantity(ctx, item.ID, remaining); err != nil {
			return nil, err
		}
	}

	return &DecreaseResult{
		Removed:  removed,
		Refunded: item.Price.Mul(decimal.NewFromInt(removed)),
		Price:    item.Price,
		Deleted:  remaining == 0,
	}, nil
}
