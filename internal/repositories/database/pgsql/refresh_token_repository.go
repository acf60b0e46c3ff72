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

const refreshTokenColumns = `id, user_id, token_hash, expires_at, created_at, revoked_at`

type PgxRefreshTokenRepository struct {
	BaseRepository
}

func newPgxRefreshTokenRepository(pool *pgxpool.Pool) portsrepo.RefreshTokenRepositoryFacade {
	return &PgxRefreshTokenRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RefreshTokenRepositoryFacade = (*PgxRefreshTokenRepository)(nil)

func (r *PgxRefreshTokenRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	m := mapping.ToModelRefreshToken(token)
	query := `
        INSERT INTO refresh_tokens (` + refreshTokenColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.Pool.Exec(ctx, query, m.TokenID, m.UserID, m.TokenHash, m.ExpiresAt, m.CreatedAt, m.RevokedAt)
	if err != nil {
		return mapPgError(err, "failed to save refresh token")
	}
	return nil
}

func (r *PgxRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	var m models.RefreshToken
	err := r.Pool.QueryRow(ctx, `SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = $1;`, tokenHash).Scan(
		&m.TokenID,
		&m.UserID,
		&m.TokenHash,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRefreshTokenMissing
		}
		return nil, apperrors.NewStorageError("failed to find refresh token", err)
	}
	token := mapping.ToDomainRefreshToken(m)
	return &token, nil
}

// RevokeRefreshToken only touches a live row, so two concurrent rotations of
// the same token cannot both succeed.
func (r *PgxRefreshTokenRepository) RevokeRefreshToken(ctx context.Context, tokenID string, now time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL;`, tokenID, now)
	if err != nil {
		return apperrors.NewStorageError("failed to revoke refresh token", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrRefreshTokenMissing, tokenID)
	}
	return nil
}

func (r *PgxRefreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string, now time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL;`, userID, now)
	if err != nil {
		return apperrors.NewStorageError("failed to revoke refresh tokens", err)
	}
	return nil
}
