package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
)

type refreshTokenRepository struct {
	store *Store
}

func newRefreshTokenRepository(store *Store) portsrepo.RefreshTokenRepositoryFacade {
	return &refreshTokenRepository{store: store}
}

var _ portsrepo.RefreshTokenRepositoryFacade = (*refreshTokenRepository)(nil)

func (r *refreshTokenRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[token.UserID]; !ok {
		return fmt.Errorf("%w: unknown user %s", apperrors.ErrValidation, token.UserID)
	}
	if _, ok := r.store.refreshHashes[token.TokenHash]; ok {
		return fmt.Errorf("%w: refresh token hash", apperrors.ErrDuplicate)
	}
	if _, ok := r.store.refreshTokens[token.TokenID]; ok {
		return fmt.Errorf("%w: refresh token %s", apperrors.ErrDuplicate, token.TokenID)
	}
	r.store.refreshTokens[token.TokenID] = token
	r.store.refreshHashes[token.TokenHash] = token.TokenID
	return nil
}

func (r *refreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.refreshHashes[tokenHash]
	if !ok {
		return nil, apperrors.ErrRefreshTokenMissing
	}
	token := r.store.refreshTokens[id]
	return &token, nil
}

func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, tokenID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.refreshTokens[tokenID]
	if !ok || token.RevokedAt != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrRefreshTokenMissing, tokenID)
	}
	token.RevokedAt = &now
	r.store.refreshTokens[tokenID] = token
	return nil
}

func (r *refreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, token := range r.store.refreshTokens {
		if token.UserID == userID && token.RevokedAt == nil {
			revokedAt := now
			token.RevokedAt = &revokedAt
			r.store.refreshTokens[id] = token
		}
	}
	return nil
}
