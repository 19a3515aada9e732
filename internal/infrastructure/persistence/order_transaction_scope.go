package persistence

import (
	"context"

	"gorm.io/gorm"

	appordering "github.com/orderdesk/backend/internal/application/ordering"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/ordering"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// ItemRepo returns the order item repository scoped to the current transaction
func (r *gormTransactionalRepositories) ItemRepo() ordering.OrderItemRepository {
	return NewGormOrderItemRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the inventory movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appordering.TransactionScope = (*GormTransactionScope)(nil)
var _ appordering.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
