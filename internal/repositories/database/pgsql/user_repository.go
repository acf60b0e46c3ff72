package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_backoffice_api/internal/models"
	"github.com/SscSPs/bank_backoffice_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, role, status, login_attempts, locked_until, last_login_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.Status,
		&m.LoginAttempts,
		&m.LockedUntil,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.Status,
		m.LoginAttempts,
		m.LockedUntil,
		m.LastLoginAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save user")
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, key string) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewStorageError("failed to find user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

// ListUsers returns one page, newest first, plus the total number of matching
// rows. Both reads share a repeatable-read snapshot.
func (r *PgxUserRepository) ListUsers(ctx context.Context, filter domain.UserFilter, limit int, offset int) ([]domain.User, int, error) {
	if err := checkOffset(offset); err != nil {
		return nil, 0, err
	}

	conds := []string{}
	args := []any{}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Search != "" {
		// strpos keeps % and _ in the search term literal.
		args = append(args, strings.ToLower(filter.Search))
		conds = append(conds, fmt.Sprintf("(strpos(lower(name), $%d) > 0 OR strpos(lower(email), $%d) > 0)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewStorageError("failed to count users", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d;
	`, userColumns, where, n+1, n+2)
	rows, err := tx.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to query users", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, 0, apperrors.NewStorageError("failed to scan user row", err)
		}
		modelUsers = append(modelUsers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewStorageError("error iterating user rows", err)
	}
	return mapping.ToDomainUserSlice(modelUsers), total, nil
}

// RecordFailedLogin bumps login_attempts in one statement so concurrent
// failures cannot overwrite each other. SET expressions see the old row.
func (r *PgxUserRepository) RecordFailedLogin(ctx context.Context, userID string, now time.Time) (int, *time.Time, error) {
	query := `
        UPDATE users
        SET login_attempts = CASE WHEN login_attempts + 1 >= $2 THEN 0 ELSE login_attempts + 1 END,
            locked_until   = CASE WHEN login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
            last_updated_at = $4
        WHERE id = $1
        RETURNING login_attempts, locked_until;
    `
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID, domain.MaxLoginAttempts, now.Add(domain.LoginLockDuration), now).
		Scan(&m.LoginAttempts, &m.LockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
		}
		return 0, nil, apperrors.NewStorageError("failed to record failed login", err)
	}
	var lockedUntil *time.Time
	if m.LockedUntil.Valid {
		t := m.LockedUntil.Time
		lockedUntil = &t
	}
	return m.LoginAttempts, lockedUntil, nil
}

func (r *PgxUserRepository) RecordLogin(ctx context.Context, userID string, now time.Time) error {
	query := `
        UPDATE users
        SET login_attempts = 0, locked_until = NULL, last_login_at = $2, last_updated_at = $2
        WHERE id = $1;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, userID, now)
	if err != nil {
		return apperrors.NewStorageError("failed to record login", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	return nil
}

func (r *PgxUserRepository) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error {
	query := `
        UPDATE users
        SET status = $2, last_updated_at = $3, last_updated_by = $4
        WHERE id = $1;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, userID, string(status), now, updatedBy)
	if err != nil {
		return mapPgError(err, "failed to update user status")
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	return nil
}
