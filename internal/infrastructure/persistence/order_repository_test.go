package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orderdesk/backend/internal/domain/ordering"
	"github.com/orderdesk/backend/internal/domain/shared"
)

func createOrderForTest(t *testing.T) *ordering.Order {
	order, err := ordering.NewOrder("Test Customer")
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("loads order with items", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		now := time.Now()

		orderRows := sqlmock.NewRows([]string{
			"id", "customer_name", "total", "status",
			"last_change_at", "last_change_type", "deleted_at", "version",
		}).AddRow(orderID, "Alice", decimal.NewFromFloat(20.00), "PENDING", now, "created", nil, 1)

		itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price"}).
			AddRow(uuid.New(), orderID, uuid.New(), 2, decimal.NewFromFloat(10.00))

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(itemRows)

		order, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, ordering.OrderStatusPending, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, int64(2), order.Items[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing order", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("updates when the version is current", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		order := createOrderForTest(t)

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), order)

		require.NoError(t, err)
		assert.Equal(t, 2, order.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows means another transaction won", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		order := createOrderForTest(t)

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), order)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(gormDB)

		orderID := uuid.New()
		now := time.Now()

		filter := shared.DefaultFilter()
		filter.Filters["status"] = "PENDING"

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE status = \$1`).
			WithArgs("PENDING").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		orderRows := sqlmock.NewRows([]string{
			"id", "customer_name", "total", "status",
			"last_change_at", "last_change_type", "deleted_at", "version",
		}).AddRow(orderID, "Alice", decimal.Zero, "PENDING", now, "created", nil, 1)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs("PENDING", 20).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "order_items"`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price"}))

		page, err := repo.FindAll(context.Background(), filter)

		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
		assert.Equal(t, 1, page.TotalPages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, orderID, page.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
