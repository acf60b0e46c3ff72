package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/platform/config"
	"github.com/SscSPs/bank_backoffice_api/internal/utils"
	"github.com/google/uuid"
)

// authService checks credentials and issues JWT access tokens with rotating
// refresh tokens.
type authService struct {
	BaseService
	cfg         *config.Config
	userRepo    portsrepo.UserRepositoryFacade
	refreshRepo portsrepo.RefreshTokenRepositoryFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, refreshRepo portsrepo.RefreshTokenRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo, refreshRepo: refreshRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.Now()
	if user.IsLocked(now) {
		s.GetLogger(ctx).Warn("Login refused for locked user", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrAccountLocked
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		attempts, lockedUntil, err := s.userRepo.RecordFailedLogin(ctx, user.UserID, now)
		if err != nil {
			s.LogError(ctx, err, "Failed to record failed login", slog.String("user_id", user.UserID))
		} else if lockedUntil != nil && attempts == 0 {
			s.GetLogger(ctx).Warn("User locked after repeated failed logins",
				slog.String("user_id", user.UserID), slog.Time("locked_until", *lockedUntil))
		}
		return nil, errInvalidCredentials
	}

	// status is only disclosed to callers who know the password
	if !user.IsActive() {
		s.GetLogger(ctx).Warn("Login refused for inactive user",
			slog.String("user_id", user.UserID), slog.String("status", string(user.Status)))
		return nil, apperrors.ErrUserInactive
	}

	if err := s.userRepo.RecordLogin(ctx, user.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to record login", slog.String("user_id", user.UserID))
	} else {
		user.RecordLogin(now)
	}

	tokens, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "User logged in successfully", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{AuthTokens: *tokens, User: dto.ToUserResponse(user)}, nil
}

func (s *authService) IssueTokens(ctx context.Context, user *domain.User) (*dto.AuthTokens, error) {
	accessToken, expiresAt, err := utils.GenerateJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, hash, err := utils.NewRefreshToken(s.cfg.RefreshTokenSecret)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token", slog.String("user_id", user.UserID))
		return nil, err
	}

	now := s.Now()
	record := domain.RefreshToken{
		TokenID:   uuid.NewString(),
		UserID:    user.UserID,
		TokenHash: hash,
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpiryDuration),
		CreatedAt: now,
	}
	if err := s.refreshRepo.SaveRefreshToken(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", user.UserID))
		return nil, err
	}

	return &dto.AuthTokens{
		AccessToken:      accessToken,
		TokenType:        "Bearer",
		ExpiresAt:        expiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *authService) RefreshTokens(ctx context.Context, req dto.RefreshTokenRequest) (*dto.AuthTokens, error) {
	hash := utils.HashRefreshToken(req.RefreshToken, s.cfg.RefreshTokenSecret)
	stored, err := s.refreshRepo.FindRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !utils.CompareRefreshTokenHash(req.RefreshToken, stored.TokenHash, s.cfg.RefreshTokenSecret) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	now := s.Now()
	if stored.RevokedAt != nil {
		// a rotated token came back, so the chain is treated as stolen
		s.GetLogger(ctx).Warn("Revoked refresh token presented, ending all sessions", slog.String("user_id", stored.UserID))
		if err := s.refreshRepo.RevokeUserRefreshTokens(ctx, stored.UserID, now); err != nil {
			s.LogError(ctx, err, "Failed to revoke refresh tokens", slog.String("user_id", stored.UserID))
		}
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if !stored.Usable(now) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if err := s.refreshRepo.RevokeRefreshToken(ctx, stored.TokenID, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// lost a race with a concurrent rotation of the same token
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	tokens, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Refresh token rotated", slog.String("user_id", user.UserID))
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, principal domain.Principal) error {
	if err := s.refreshRepo.RevokeUserRefreshTokens(ctx, principal.UserID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to revoke refresh tokens on logout", slog.String("user_id", principal.UserID))
		return err
	}
	s.LogInfo(ctx, "User logged out successfully", slog.String("user_id", principal.UserID))
	return nil
}
