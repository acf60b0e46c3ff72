package services

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
)

// UserSvcFacade defines user management operations.
type UserSvcFacade interface {
	// RegisterUser creates a user and opens their first account.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, *domain.Account, error)

	// GetUserByID retrieves a user. Non-admins may only read themselves;
	// anything else reports apperrors.ErrUserNotFound.
	GetUserByID(ctx context.Context, principal domain.Principal, userID string) (*domain.User, error)

	// ListUsers returns a filtered page of users. Admin only.
	ListUsers(ctx context.Context, principal domain.Principal, params dto.ListUsersParams) (*dto.ListUsersResponse, error)

	// ChangeUserStatus sets whether a user may sign in. Admin only. Any
	// status other than active also ends the user's sessions.
	ChangeUserStatus(ctx context.Context, principal domain.Principal, userID string, status domain.UserStatus) (*domain.User, error)

	// EnsureAdmin creates the bootstrap admin if no user holds the email yet.
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error)
}
