package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the ledger cares about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// mapPgError translates driver errors into the application's error kinds.
// Anything unrecognised becomes a storage error.
func mapPgError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.NewStorageError(msg, err)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrValidation, msg, pgErr.ConstraintName)
	case pgCheckViolation:
		if pgErr.ConstraintName == "accounts_balance_non_negative" {
			return fmt.Errorf("%w: %s", apperrors.ErrInsufficientBalance, msg)
		}
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrValidation, msg, pgErr.ConstraintName)
	case pgLockNotAvailable:
		return fmt.Errorf("%w: %s", apperrors.ErrBusy, msg)
	case pgDeadlockDetected, pgSerializationFailure:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, msg)
	default:
		return apperrors.NewStorageError(msg, err)
	}
}
