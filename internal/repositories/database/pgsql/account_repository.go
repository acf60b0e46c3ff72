package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_backoffice_api/internal/models"
	"github.com/SscSPs/bank_backoffice_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, user_id, account_number, account_type, balance, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.AccountNumber,
		&m.AccountType,
		&m.Balance,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	modelAccs := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		modelAccs = append(modelAccs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(modelAccs), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.AccountNumber,
		m.AccountType,
		m.Balance,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to save account %s", m.AccountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, `SELECT `+accountColumns+` FROM accounts WHERE id = $1;`, accountID)
}

// FindAccountByNumber retrieves an account by its public account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, `SELECT `+accountColumns+` FROM accounts WHERE account_number = $1;`, accountNumber)
}

func findAccount(ctx context.Context, q querier, query string, key string) (*domain.Account, error) {
	m, err := scanAccount(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, key)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to find account %s", key), err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to query accounts for user %s", userID), err)
	}
	return collectAccounts(rows)
}

// ListAccounts retrieves a page of all accounts, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if err := checkOffset(offset); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query accounts", err)
	}
	return collectAccounts(rows)
}

func (r *PgxAccountRepository) UpdateAccountType(ctx context.Context, accountID string, accountType domain.AccountType, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET account_type = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(accountType), now, userID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update account %s", accountID))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}
