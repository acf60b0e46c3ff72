package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers returns a page ordered by creation time descending together
	// with the total number of users matching the filter.
	ListUsers(ctx context.Context, filter domain.UserFilter, limit int, offset int) ([]domain.User, int, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A clashing email yields apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// RecordFailedLogin increments the failed-login counter in a single step
	// and applies the temporary lock once domain.MaxLoginAttempts is reached.
	// It returns the stored counter and lock deadline after the update.
	RecordFailedLogin(ctx context.Context, userID string, now time.Time) (int, *time.Time, error)

	// RecordLogin clears failed-login state and stamps the last login time.
	RecordLogin(ctx context.Context, userID string, now time.Time) error

	// UpdateUserStatus changes whether the user may sign in.
	UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
