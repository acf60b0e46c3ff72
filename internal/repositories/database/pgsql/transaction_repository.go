package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_backoffice_api/internal/models"
	"github.com/SscSPs/bank_backoffice_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, from_account_id, to_account_id, amount, type, status, description, idempotency_key, created_at, created_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.Description,
		&m.IdempotencyKey,
		&m.Timestamp,
		&m.CreatedBy,
	)
	return m, err
}

func insertTransaction(ctx context.Context, q querier, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID,
		m.FromAccountID,
		m.ToAccountID,
		m.Amount,
		m.Type,
		m.Status,
		m.Description,
		m.IdempotencyKey,
		m.Timestamp,
		m.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert transaction %s", m.TransactionID))
	}
	return nil
}

func findTransaction(ctx context.Context, q querier, query string, key string) (*domain.Transaction, error) {
	m, err := scanTransaction(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, key)
		}
		return nil, apperrors.NewStorageError("failed to find transaction", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

const findByIdempotencyKeyQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1;`

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return findTransaction(ctx, r.Pool, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1;`, transactionID)
}

func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	return findTransaction(ctx, r.Pool, findByIdempotencyKeyQuery, key)
}

// ListTransactions returns one page, newest first, plus the total number of
// matching rows. Both reads share a repeatable-read snapshot.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, offset int) ([]domain.Transaction, int, error) {
	if err := checkOffset(offset); err != nil {
		return nil, 0, err
	}
	if filter.AccountIDs != nil && len(filter.AccountIDs) == 0 {
		return []domain.Transaction{}, 0, nil
	}

	where := ""
	args := []any{}
	if filter.AccountIDs != nil {
		where = "WHERE from_account_id = ANY($1::uuid[]) OR to_account_id = ANY($1::uuid[])"
		args = append(args, filter.AccountIDs)
	}

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewStorageError("failed to count transactions", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d;
	`, transactionColumns, where, n+1, n+2)
	rows, err := tx.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to query transactions", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, apperrors.NewStorageError("failed to scan transaction row", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewStorageError("error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), total, nil
}
