package models

import (
	"database/sql"
	"time"
)

// User is a registered user row, credentials included.
type User struct {
	UserID        string       `db:"id"`
	Name          string       `db:"name"`
	Email         string       `db:"email"`
	PasswordHash  string       `db:"password_hash"`
	Role          string       `db:"role"`
	Status        string       `db:"status"`
	LoginAttempts int          `db:"login_attempts"`
	LockedUntil   sql.NullTime `db:"locked_until"`  // Nullable
	LastLoginAt   sql.NullTime `db:"last_login_at"` // Nullable
	AuditFields
}

// RefreshToken is a stored session token hash.
type RefreshToken struct {
	TokenID   string       `db:"id"`
	UserID    string       `db:"user_id"`
	TokenHash string       `db:"token_hash"`
	ExpiresAt time.Time    `db:"expires_at"`
	CreatedAt time.Time    `db:"created_at"`
	RevokedAt sql.NullTime `db:"revoked_at"` // Nullable
}
