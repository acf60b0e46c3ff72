package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is a unit of work over account balances and transaction records.
// Everything written through it becomes visible together on commit or not at all.
type LedgerTx interface {
	// LockAccounts acquires exclusive access to the given accounts in ascending
	// id order and returns their current state. Fails with apperrors.ErrBusy when
	// the locks cannot be obtained within the configured wait, and with
	// apperrors.ErrAccountNotFound when an id does not resolve.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalance writes next only if the stored balance still equals
	// expected; otherwise it fails with apperrors.ErrConflict.
	UpdateAccountBalance(ctx context.Context, accountID string, expected, next decimal.Decimal, userID string, now time.Time) error

	// UpdateAccountStatus sets the lifecycle status of a locked account.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error

	// InsertTransaction appends a transaction record. A reused idempotency key
	// yields apperrors.ErrDuplicate.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByIdempotencyKey looks up a previously recorded transaction.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
}

// TransactionManager runs work inside a storage transaction.
type TransactionManager interface {
	// WithinTx runs fn in a unit of work. It commits when fn returns nil and
	// rolls back otherwise. Locks taken through the LedgerTx are released on
	// every exit path.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
