package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/utils"
	"github.com/google/uuid"
)

// userService registers users, opens their first account and lets admins
// manage who may sign in.
type userService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	refreshRepo portsrepo.RefreshTokenRepositoryFacade
	accountSvc  portssvc.AccountWriterSvc
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, refreshRepo portsrepo.RefreshTokenRepositoryFacade, accountSvc portssvc.AccountWriterSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, *domain.Account, error) {
	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, domain.RoleUser)
	if err != nil {
		return nil, nil, err
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = string(domain.AccountTypeCurrent)
	}
	principal := domain.Principal{UserID: user.UserID, Role: user.Role}
	account, err := s.accountSvc.OpenAccount(ctx, principal, dto.CreateAccountRequest{AccountType: accountType})
	if err != nil {
		s.LogError(ctx, err, "User registered but opening the first account failed", slog.String("user_id", user.UserID))
		return nil, nil, fmt.Errorf("failed to open account for new user: %w", err)
	}

	return user, account, nil
}

func (s *userService) GetUserByID(ctx context.Context, principal domain.Principal, userID string) (*domain.User, error) {
	if !principal.CanAccess(userID) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, principal domain.Principal, params dto.ListUsersParams) (*dto.ListUsersResponse, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	params = params.Normalize()
	users, total, err := s.userRepo.ListUsers(ctx, params.Filter(), params.Limit, params.Offset())
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	return dto.ToListUsersResponse(users, params, total), nil
}

func (s *userService) ChangeUserStatus(ctx context.Context, principal domain.Principal, userID string, status domain.UserStatus) (*domain.User, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if _, err := domain.ParseUserStatus(string(status)); err != nil {
		return nil, err
	}
	if userID == principal.UserID {
		return nil, fmt.Errorf("%w: admins cannot change their own status", apperrors.ErrForbidden)
	}

	now := s.Now()
	if err := s.userRepo.UpdateUserStatus(ctx, userID, status, principal.UserID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update user status", slog.String("user_id", userID))
		}
		return nil, err
	}
	if status != domain.UserStatusActive {
		if err := s.refreshRepo.RevokeUserRefreshTokens(ctx, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to end sessions of deactivated user", slog.String("user_id", userID))
			return nil, err
		}
	}

	s.LogInfo(ctx, "User status changed",
		slog.String("user_id", userID), slog.String("status", string(status)), slog.String("changed_by", principal.UserID))
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.GetLogger(ctx).Warn("Bootstrap admin email belongs to a non-admin user", slog.String("user_id", existing.UserID))
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.createUser(ctx, name, email, password, domain.RoleAdmin)
}

func (s *userService) createUser(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	s.LogInfo(ctx, "User created successfully", slog.String("user_id", userID), slog.String("role", string(role)))
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
