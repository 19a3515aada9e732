package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// Postgres error code raised when lock_timeout expires while waiting for a
// row lock.
const pqLockNotAvailable = "55P03"

// translateError maps driver-level errors to domain errors. Lock wait
// timeouts become ErrConcurrencyTimeout so callers can surface contention
// instead of a generic failure; record-not-found becomes ErrNotFound.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	// The gorm postgres driver is built on pgx and returns *pgconn.PgError;
	// lib/pq errors appear only on database/sql connections such as the
	// migrate runner.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pqLockNotAvailable {
		return shared.ErrConcurrencyTimeout
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqLockNotAvailable {
		return shared.ErrConcurrencyTimeout
	}
	return err
}
