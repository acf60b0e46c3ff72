package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserStatus(t *testing.T) {
	for _, raw := range []string{"active", " Frozen ", "SUSPENDED", "inactive"} {
		st, err := domain.ParseUserStatus(raw)
		require.NoError(t, err, raw)
		assert.NotEmpty(t, st)
	}

	_, err := domain.ParseUserStatus("banned")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorContains(t, err, "must be one of: active, inactive, suspended, frozen")
}

func TestUser_LoginBookkeeping(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := domain.User{Status: domain.UserStatusActive}
	assert.True(t, u.IsActive())

	for i := 1; i < domain.MaxLoginAttempts; i++ {
		u.RegisterFailedLogin(now)
		assert.Equal(t, i, u.LoginAttempts)
		assert.False(t, u.IsLocked(now))
	}
	u.RegisterFailedLogin(now)
	assert.Zero(t, u.LoginAttempts)
	assert.True(t, u.IsLocked(now))
	assert.False(t, u.IsLocked(now.Add(domain.LoginLockDuration)))

	later := now.Add(3 * time.Hour)
	u.RecordLogin(later)
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, later, *u.LastLoginAt)

	u.Status = domain.UserStatusSuspended
	assert.False(t, u.IsActive())
}

func TestUserFilter_Matches(t *testing.T) {
	ada := domain.User{Name: "Ada Lovelace", Email: "ada@bank.test", Role: domain.RoleUser, Status: domain.UserStatusActive}

	tests := []struct {
		name   string
		filter domain.UserFilter
		want   bool
	}{
		{"empty", domain.UserFilter{}, true},
		{"status", domain.UserFilter{Status: domain.UserStatusActive}, true},
		{"other status", domain.UserFilter{Status: domain.UserStatusFrozen}, false},
		{"role", domain.UserFilter{Role: domain.RoleAdmin}, false},
		{"name search ignores case", domain.UserFilter{Search: "LOVE"}, true},
		{"email search", domain.UserFilter{Search: "@bank"}, true},
		{"search miss", domain.UserFilter{Search: "grace"}, false},
		{"combined", domain.UserFilter{Role: domain.RoleUser, Status: domain.UserStatusActive, Search: "ada"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(ada))
		})
	}
}

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Now()
	token := domain.RefreshToken{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, token.Usable(now))
	assert.False(t, token.Usable(now.Add(time.Minute)))

	revoked := now.Add(-time.Second)
	token.RevokedAt = &revoked
	assert.False(t, token.Usable(now))
}
