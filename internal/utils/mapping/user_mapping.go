package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:        d.UserID,
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Role:          string(d.Role),
		Status:        string(d.Status),
		LoginAttempts: d.LoginAttempts,
		LockedUntil:   toNullTime(d.LockedUntil),
		LastLoginAt:   toNullTime(d.LastLoginAt),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:        m.UserID,
		Name:          m.Name,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Role:          domain.UserRole(m.Role),
		Status:        domain.UserStatus(m.Status),
		LoginAttempts: m.LoginAttempts,
		LockedUntil:   fromNullTime(m.LockedUntil),
		LastLoginAt:   fromNullTime(m.LastLoginAt),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	users := make([]domain.User, len(ms))
	for i, m := range ms {
		users[i] = ToDomainUser(m)
	}
	return users
}

// ToModelRefreshToken converts a domain RefreshToken to a model RefreshToken
func ToModelRefreshToken(d domain.RefreshToken) models.RefreshToken {
	return models.RefreshToken{
		TokenID:   d.TokenID,
		UserID:    d.UserID,
		TokenHash: d.TokenHash,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
		RevokedAt: toNullTime(d.RevokedAt),
	}
}

// ToDomainRefreshToken converts a model RefreshToken to a domain RefreshToken
func ToDomainRefreshToken(m models.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		TokenID:   m.TokenID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		RevokedAt: fromNullTime(m.RevokedAt),
	}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
