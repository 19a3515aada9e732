package ordering

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/ordering"
)

// TransactionScope provides transactional access to the repositories an
// order mutation touches. When a function is executed within a transaction
// scope, all repository operations are part of the same database transaction
// and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - OrderRepo owns the Order aggregate; status, total and audit fields
//     only change through it, guarded by the aggregate version.
//   - ItemRepo stores order lines individually so concurrent mutations of
//     different lines lock at row granularity instead of the whole order.
//   - ProductRepo carries the stock counter; MovementRepo is append-only.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() ordering.OrderRepository
	// ItemRepo returns the order item repository scoped to the current transaction
	ItemRepo() ordering.OrderItemRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// MovementRepo returns the inventory movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	orderRepo    ordering.OrderRepository
	itemRepo     ordering.OrderItemRepository
	productRepo  catalog.ProductRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo ordering.OrderRepository,
	itemRepo ordering.OrderItemRepository,
	productRepo catalog.ProductRepository,
	movementRepo inventory.MovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository {
	return s.orderRepo
}

// ItemRepo returns the order item repository.
func (s *NoOpTransactionScope) ItemRepo() ordering.OrderItemRepository {
	return s.itemRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// MovementRepo returns the inventory movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
