package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
)

// MaxLoginAttempts is the number of consecutive failed logins before a temporary lock.
const MaxLoginAttempts = 5

// LoginLockDuration is how long a user stays locked after too many failed logins.
const LoginLockDuration = 2 * time.Hour

// UserRole controls access to admin-only operations.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, s)
	}
}

// UserStatus gates whether a user may sign in.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusFrozen    UserStatus = "frozen"
)

// ParseUserStatus converts raw input into a UserStatus.
func ParseUserStatus(s string) (UserStatus, error) {
	switch st := UserStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended, UserStatusFrozen:
		return st, nil
	default:
		return "", fmt.Errorf("%w: invalid status %q, must be one of: active, inactive, suspended, frozen", apperrors.ErrValidation, s)
	}
}

// User represents a user of the application in the domain.
type User struct {
	UserID        string     `json:"userID"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          UserRole   `json:"role"`
	Status        UserStatus `json:"status"`
	LoginAttempts int        `json:"-"`
	LockedUntil   *time.Time `json:"-"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	AuditFields
}

// IsActive reports whether the user may sign in and refresh sessions.
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked reports whether logins are currently refused for the user.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RegisterFailedLogin bumps the attempt counter and locks the user once the limit is hit.
func (u *User) RegisterFailedLogin(now time.Time) {
	u.LoginAttempts++
	if u.LoginAttempts >= MaxLoginAttempts {
		until := now.Add(LoginLockDuration)
		u.LockedUntil = &until
		u.LoginAttempts = 0
	}
}

// RecordLogin clears failed-login state after a successful login.
func (u *User) RecordLogin(now time.Time) {
	u.LoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
}

// UserFilter narrows an admin user listing. Search matches name or email,
// case-insensitively.
type UserFilter struct {
	Status UserStatus
	Role   UserRole
	Search string
}

// Matches reports whether u passes the filter.
func (f UserFilter) Matches(u User) bool {
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q)
	}
	return true
}

// RefreshToken is a stored session credential. Only a keyed hash of the
// opaque token handed to the client is kept.
type RefreshToken struct {
	TokenID   string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Usable reports whether the token can still be exchanged.
func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
