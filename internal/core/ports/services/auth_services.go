package services

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
)

// AuthSvcFacade defines credential checks and session token handling.
type AuthSvcFacade interface {
	// Login verifies email and password and opens a session.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// IssueTokens opens a session for an already authenticated user.
	IssueTokens(ctx context.Context, user *domain.User) (*dto.AuthTokens, error)

	// RefreshTokens exchanges a refresh token for a new token pair. The
	// presented token is revoked; presenting a revoked token ends every
	// session of its user.
	RefreshTokens(ctx context.Context, req dto.RefreshTokenRequest) (*dto.AuthTokens, error)

	// Logout revokes every refresh token of the principal.
	Logout(ctx context.Context, principal domain.Principal) error
}
