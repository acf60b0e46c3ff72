package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// RefreshTokenRepositoryFacade stores session refresh tokens by keyed hash.
type RefreshTokenRepositoryFacade interface {
	// SaveRefreshToken persists a newly issued token.
	SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error

	// FindRefreshTokenByHash looks a token up by its hash, revoked or not.
	// A miss yields apperrors.ErrRefreshTokenMissing.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// RevokeRefreshToken marks a single token revoked. Only one caller can
	// revoke a given token; later callers get apperrors.ErrRefreshTokenMissing.
	RevokeRefreshToken(ctx context.Context, tokenID string, now time.Time) error

	// RevokeUserRefreshTokens revokes every live token of the user.
	RevokeUserRefreshTokens(ctx context.Context, userID string, now time.Time) error
}
