package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_backoffice_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTxManager struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.TransactionManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: lockTimeout}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithinTx runs fn inside a database transaction. Row locks taken through the
// LedgerTx are held until commit or rollback; a lock wait longer than the
// configured timeout aborts with apperrors.ErrBusy.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer m.Rollback(ctx, tx) // no-op after a successful commit

	if m.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true);`, timeout); err != nil {
			return apperrors.NewStorageError("failed to set lock timeout", err)
		}
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockAccounts takes row locks one id at a time in ascending order so two
// units of work touching the same pair of accounts cannot deadlock.
func (l *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	locked := make(map[string]domain.Account, len(ids))
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE;`
	for _, id := range ids {
		m, err := scanAccount(l.tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
			}
			return nil, mapPgError(err, fmt.Sprintf("failed to lock account %s", id))
		}
		locked[id] = mapping.ToDomainAccount(m)
	}
	return locked, nil
}

// UpdateAccountBalance writes next only if the stored balance still equals expected.
func (l *pgxLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, expected, next decimal.Decimal, userID string, now time.Time) error {
	if next.IsNegative() {
		return fmt.Errorf("%w: balance of %s would become negative", apperrors.ErrInsufficientBalance, accountID)
	}
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $4, last_updated_by = $5
		WHERE id = $1 AND balance = $3;
	`
	cmdTag, err := l.tx.Exec(ctx, query, accountID, next, expected, now, userID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update balance of account %s", accountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: balance of %s changed concurrently", apperrors.ErrConflict, accountID)
	}
	return nil
}

func (l *pgxLedgerTx) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1;
	`
	cmdTag, err := l.tx.Exec(ctx, query, accountID, string(status), now, userID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update status of account %s", accountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

func (l *pgxLedgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, l.tx, txn)
}

func (l *pgxLedgerTx) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	return findTransaction(ctx, l.tx, findByIdempotencyKeyQuery, key)
}
