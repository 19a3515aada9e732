package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// MockOrderItemRepository is a mock implementation of OrderItemRepository
type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) FindByOrderAndProductForUpdate(ctx context.Context, orderID, productID uuid.UUID) (*OrderItem, error) {
	args := m.Called(ctx, orderID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockOrderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestItemStore_AddOrMerge(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	ctx := context.Background()

	t.Run("creates new line with price snapshot", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(nil, shared.ErrNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*ordering.OrderItem")).Return(nil)

		result, err := store.AddOrMerge(ctx, orderID, productID, 3, decimal.NewFromFloat(4.50))

		require.NoError(t, err)
		assert.False(t, result.Merged)
		assert.Equal(t, int64(3), result.Item.Quantity)
		assert.True(t, result.Item.Price.Equal(decimal.NewFromFloat(4.50)))
		assert.True(t, result.Charged.Equal(decimal.NewFromFloat(13.50)))
		repo.AssertExpectations(t)
	})

	t.Run("merges into existing line keeping snapshot price", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		existing, err := NewOrderItem(orderID, productID, 2, decimal.NewFromFloat(10.00))
		require.NoError(t, err)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(existing, nil)
		repo.On("UpdateQuantity", ctx, existing.ID, int64(5)).Return(nil)

		// Catalog price changed to 12.00 since the line was created.
		result, err := store.AddOrMerge(ctx, orderID, productID, 3, decimal.NewFromFloat(12.00))

		require.NoError(t, err)
		assert.True(t, result.Merged)
		assert.Equal(t, int64(5), result.Item.Quantity)
		assert.True(t, result.Item.Price.Equal(decimal.NewFromFloat(10.00)))
		assert.True(t, result.Charged.Equal(decimal.NewFromFloat(30.00)))
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		_, err := store.AddOrMerge(ctx, orderID, productID, 0, decimal.NewFromInt(1))
		require.Error(t, err)
		repo.AssertNotCalled(t, "FindByOrderAndProductForUpdate")
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		repoErr := errors.New("connection reset")
		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(nil, repoErr)

		_, err := store.AddOrMerge(ctx, orderID, productID, 1, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestItemStore_Decrease(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	ctx := context.Background()

	t.Run("decreases part of a line", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		item, err := NewOrderItem(orderID, productID, 5, decimal.NewFromFloat(2.50))
		require.NoError(t, err)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(item, nil)
		repo.On("UpdateQuantity", ctx, item.ID, int64(3)).Return(nil)

		result, err := store.Decrease(ctx, orderID, productID, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Removed)
		assert.True(t, result.Refunded.Equal(decimal.NewFromFloat(5.00)))
		assert.False(t, result.Deleted)
		repo.AssertExpectations(t)
	})

	t.Run("clamps to held quantity", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		item, err := NewOrderItem(orderID, productID, 2, decimal.NewFromFloat(3.00))
		require.NoError(t, err)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(item, nil)
		repo.On("Delete", ctx, item.ID).Return(nil)

		result, err := store.Decrease(ctx, orderID, productID, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Removed)
		assert.True(t, result.Refunded.Equal(decimal.NewFromFloat(6.00)))
		assert.True(t, result.Deleted)
		repo.AssertExpectations(t)
	})

	t.Run("deletes line when quantity reaches zero", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		item, err := NewOrderItem(orderID, productID, 4, decimal.NewFromFloat(1.00))
		require.NoError(t, err)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(item, nil)
		repo.On("Delete", ctx, item.ID).Return(nil)

		result, err := store.Decrease(ctx, orderID, productID, 4)

		require.NoError(t, err)
		assert.True(t, result.Deleted)
		repo.AssertNotCalled(t, "UpdateQuantity")
	})

	t.Run("missing line yields item not found", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		repo.On("FindByOrderAndProductForUpdate", ctx, orderID, productID).Return(nil, shared.ErrNotFound)

		_, err := store.Decrease(ctx, orderID, productID, 1)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := new(MockOrderItemRepository)
		store := NewItemStore(repo)

		_, err := store.Decrease(ctx, orderID, productID, -1)
		require.Error(t, err)
		repo.AssertNotCalled(t, "FindByOrderAndProductForUpdate")
	})
}
