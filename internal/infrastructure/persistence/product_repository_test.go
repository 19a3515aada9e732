package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
			AddRow(productID, "Widget", decimal.NewFromFloat(9.99), 25)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, int64(25), product.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
			AddRow(productID, "Widget", decimal.NewFromFloat(9.99), 25)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByIDForUpdate(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_AdjustStock(t *testing.T) {
	t.Run("negative delta is conditional on sufficient stock", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT "stock" FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(7))

		remaining, err := repo.AdjustStock(context.Background(), productID, -3)

		require.NoError(t, err)
		assert.Equal(t, int64(7), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed condition on existing product means insufficient stock", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.AdjustStock(context.Background(), productID, -5)

		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows on missing product means not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, err := repo.AdjustStock(context.Background(), productID, 3)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("positive delta applies unconditionally", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT "stock" FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(12))

		remaining, err := repo.AdjustStock(context.Background(), productID, 4)

		require.NoError(t, err)
		assert.Equal(t, int64(12), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
