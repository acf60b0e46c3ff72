package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/core/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/platform/config"
	"github.com/SscSPs/bank_backoffice_api/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockRefreshRepo *MockRefreshTokenRepository
	mockAccounts    *MockAccountWriter
	service         portssvc.UserSvcFacade
	ctx             context.Context

	admin domain.Principal
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRefreshRepo = new(MockRefreshTokenRepository)
	suite.mockAccounts = new(MockAccountWriter)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockRefreshRepo, suite.mockAccounts)
	suite.ctx = context.Background()
	suite.admin = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleAdmin}
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRefreshRepo.AssertExpectations(suite.T())
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	req := dto.RegisterUserRequest{Name: " Ada ", Email: "  Ada@Bank.Test ", Password: "correct-horse"}

	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(nil, apperrors.ErrUserNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "ada@bank.test" &&
			user.Name == "Ada" &&
			user.Role == domain.RoleUser &&
			user.Status == domain.UserStatusActive &&
			user.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, user.PasswordHash)
	})).Return(nil).Once()
	opened := &domain.Account{AccountID: uuid.NewString(), AccountType: domain.AccountTypeCurrent, Status: domain.AccountStatusActive}
	suite.mockAccounts.On("OpenAccount", suite.ctx, mock.MatchedBy(func(p domain.Principal) bool {
		return p.Role == domain.RoleUser && p.UserID != ""
	}), dto.CreateAccountRequest{AccountType: "current"}).Return(opened, nil).Once()

	user, acc, err := suite.service.RegisterUser(suite.ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("ada@bank.test", user.Email)
	suite.Equal(opened, acc)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	user, acc, err := suite.service.RegisterUser(suite.ctx, dto.RegisterUserRequest{Name: "Ada", Email: "ada@bank.test", Password: "correct-horse"})
	suite.Nil(user)
	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestRegisterUser_SaveError() {
	expectedErr := apperrors.NewStorageError("failed to save user", errors.New("db down"))
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(nil, apperrors.ErrUserNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(expectedErr).Once()

	_, _, err := suite.service.RegisterUser(suite.ctx, dto.RegisterUserRequest{Name: "Ada", Email: "ada@bank.test", Password: "correct-horse"})
	suite.ErrorIs(err, expectedErr)
}

func (suite *UserServiceTestSuite) TestEnsureAdmin() {
	suite.Run("creates when missing", func() {
		suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "root@bank.test").Return(nil, apperrors.ErrUserNotFound).Twice()
		suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
			return u.Role == domain.RoleAdmin
		})).Return(nil).Once()

		admin, err := suite.service.EnsureAdmin(suite.ctx, "Root", "root@bank.test", "admin-password")
		suite.Require().NoError(err)
		suite.Equal(domain.RoleAdmin, admin.Role)
	})

	suite.Run("keeps existing", func() {
		existing := &domain.User{UserID: uuid.NewString(), Email: "boss@bank.test", Role: domain.RoleAdmin}
		suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "boss@bank.test").Return(existing, nil).Once()

		admin, err := suite.service.EnsureAdmin(suite.ctx, "Boss", "boss@bank.test", "admin-password")
		suite.Require().NoError(err)
		suite.Equal(existing, admin)
	})
}

func (suite *UserServiceTestSuite) TestGetUserByID() {
	self := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleUser}
	stored := &domain.User{UserID: self.UserID, Status: domain.UserStatusActive}

	suite.Run("self", func() {
		suite.mockUserRepo.On("FindUserByID", suite.ctx, self.UserID).Return(stored, nil).Once()
		user, err := suite.service.GetUserByID(suite.ctx, self, self.UserID)
		suite.Require().NoError(err)
		suite.Equal(stored, user)
	})

	suite.Run("someone else is hidden", func() {
		_, err := suite.service.GetUserByID(suite.ctx, self, uuid.NewString())
		suite.ErrorIs(err, apperrors.ErrUserNotFound)
	})

	suite.Run("admin reads anyone", func() {
		suite.mockUserRepo.On("FindUserByID", suite.ctx, self.UserID).Return(stored, nil).Once()
		user, err := suite.service.GetUserByID(suite.ctx, suite.admin, self.UserID)
		suite.Require().NoError(err)
		suite.Equal(self.UserID, user.UserID)
	})
}

func (suite *UserServiceTestSuite) TestListUsers() {
	suite.Run("requires admin", func() {
		_, err := suite.service.ListUsers(suite.ctx, domain.Principal{UserID: uuid.NewString(), Role: domain.RoleUser}, dto.ListUsersParams{})
		suite.ErrorIs(err, apperrors.ErrForbidden)
	})

	suite.Run("filters and pages", func() {
		found := []domain.User{{UserID: uuid.NewString(), Name: "Ada", Status: domain.UserStatusFrozen}}
		filter := domain.UserFilter{Status: domain.UserStatusFrozen, Search: "ada"}
		suite.mockUserRepo.On("ListUsers", suite.ctx, filter, 5, 5).Return(found, 6, nil).Once()

		resp, err := suite.service.ListUsers(suite.ctx, suite.admin, dto.ListUsersParams{Page: 2, Limit: 5, Status: "frozen", Search: " ada "})
		suite.Require().NoError(err)
		suite.Equal(6, resp.Count)
		suite.Equal(2, resp.Page)
		suite.Require().Len(resp.Data, 1)
		suite.Equal(domain.UserStatusFrozen, resp.Data[0].Status)
	})

	suite.Run("defaults", func() {
		suite.mockUserRepo.On("ListUsers", suite.ctx, domain.UserFilter{}, dto.DefaultLimit, 0).Return([]domain.User{}, 0, nil).Once()

		resp, err := suite.service.ListUsers(suite.ctx, suite.admin, dto.ListUsersParams{})
		suite.Require().NoError(err)
		suite.Equal(dto.DefaultPage, resp.Page)
		suite.Empty(resp.Data)
	})
}

func (suite *UserServiceTestSuite) TestChangeUserStatus() {
	target := uuid.NewString()

	suite.Run("freeze ends sessions", func() {
		suite.mockUserRepo.On("UpdateUserStatus", suite.ctx, target, domain.UserStatusFrozen, suite.admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
		suite.mockRefreshRepo.On("RevokeUserRefreshTokens", suite.ctx, target, mock.AnythingOfType("time.Time")).Return(nil).Once()
		suite.mockUserRepo.On("FindUserByID", suite.ctx, target).Return(&domain.User{UserID: target, Status: domain.UserStatusFrozen}, nil).Once()

		user, err := suite.service.ChangeUserStatus(suite.ctx, suite.admin, target, domain.UserStatusFrozen)
		suite.Require().NoError(err)
		suite.Equal(domain.UserStatusFrozen, user.Status)
	})

	suite.Run("activate keeps sessions", func() {
		suite.mockUserRepo.On("UpdateUserStatus", suite.ctx, target, domain.UserStatusActive, suite.admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
		suite.mockUserRepo.On("FindUserByID", suite.ctx, target).Return(&domain.User{UserID: target, Status: domain.UserStatusActive}, nil).Once()

		user, err := suite.service.ChangeUserStatus(suite.ctx, suite.admin, target, domain.UserStatusActive)
		suite.Require().NoError(err)
		suite.Equal(domain.UserStatusActive, user.Status)
	})

	suite.Run("unknown user", func() {
		missing := uuid.NewString()
		suite.mockUserRepo.On("UpdateUserStatus", suite.ctx, missing, domain.UserStatusSuspended, suite.admin.UserID, mock.AnythingOfType("time.Time")).
			Return(apperrors.ErrUserNotFound).Once()

		_, err := suite.service.ChangeUserStatus(suite.ctx, suite.admin, missing, domain.UserStatusSuspended)
		suite.ErrorIs(err, apperrors.ErrUserNotFound)
	})

	suite.Run("refused", func() {
		_, err := suite.service.ChangeUserStatus(suite.ctx, suite.admin, suite.admin.UserID, domain.UserStatusInactive)
		suite.ErrorIs(err, apperrors.ErrForbidden)

		_, err = suite.service.ChangeUserStatus(suite.ctx, domain.Principal{UserID: uuid.NewString(), Role: domain.RoleUser}, target, domain.UserStatusFrozen)
		suite.ErrorIs(err, apperrors.ErrForbidden)

		_, err = suite.service.ChangeUserStatus(suite.ctx, suite.admin, target, domain.UserStatus("banned"))
		suite.ErrorIs(err, apperrors.ErrValidation)
	})
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockRefreshRepo *MockRefreshTokenRepository
	service         portssvc.AuthSvcFacade
	cfg             *config.Config
	ctx             context.Context
	password        string
	hash            string
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	suite.password = "correct-horse"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.hash = hash
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRefreshRepo = new(MockRefreshTokenRepository)
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret-key-that-is-long-enough",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "bank-test",
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	suite.service = services.NewAuthService(suite.cfg, suite.mockUserRepo, suite.mockRefreshRepo)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRefreshRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) user(attempts int, lockedUntil *time.Time) *domain.User {
	return &domain.User{
		UserID:        uuid.NewString(),
		Name:          "Ada",
		Email:         "ada@bank.test",
		PasswordHash:  suite.hash,
		Role:          domain.RoleUser,
		Status:        domain.UserStatusActive,
		LoginAttempts: attempts,
		LockedUntil:   lockedUntil,
	}
}

// expectSession accepts one stored refresh token for userID and reports it through saved.
func (suite *AuthServiceTestSuite) expectSession(userID string, saved *domain.RefreshToken) {
	suite.mockRefreshRepo.On("SaveRefreshToken", suite.ctx, mock.MatchedBy(func(t domain.RefreshToken) bool {
		return t.UserID == userID && t.TokenHash != "" && t.RevokedAt == nil
	})).Run(func(args mock.Arguments) {
		if saved != nil {
			*saved = args.Get(1).(domain.RefreshToken)
		}
	}).Return(nil).Once()
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	u := suite.user(0, nil)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()
	suite.mockUserRepo.On("RecordLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	var saved domain.RefreshToken
	suite.expectSession(u.UserID, &saved)

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ADA@bank.test", Password: suite.password})

	suite.Require().NoError(err)
	suite.Equal("Bearer", resp.TokenType)
	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(u.UserID, claims.Subject)
	suite.Equal("user", claims.Role)
	suite.WithinDuration(time.Now().Add(15*time.Minute), resp.ExpiresAt, 5*time.Second)

	suite.NotEmpty(resp.RefreshToken)
	suite.NotEqual(resp.RefreshToken, saved.TokenHash)
	suite.True(utils.CompareRefreshTokenHash(resp.RefreshToken, saved.TokenHash, suite.cfg.RefreshTokenSecret))
	suite.WithinDuration(time.Now().Add(24*time.Hour), resp.RefreshExpiresAt, 5*time.Second)
	suite.NotNil(resp.User.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordCountsAttempt() {
	u := suite.user(0, nil)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()
	suite.mockUserRepo.On("RecordFailedLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).Return(1, nil, nil).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: "wrong"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_LocksAfterMaxAttempts() {
	u := suite.user(domain.MaxLoginAttempts-1, nil)
	until := time.Now().Add(domain.LoginLockDuration)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()
	suite.mockUserRepo.On("RecordFailedLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).Return(0, &until, nil).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: "wrong"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrAccountLocked)
}

func (suite *AuthServiceTestSuite) TestLogin_FailedLoginBookkeepingErrorStillRejects() {
	u := suite.user(0, nil)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()
	suite.mockUserRepo.On("RecordFailedLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).
		Return(0, nil, apperrors.NewStorageError("failed to record failed login", errors.New("db down"))).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: "wrong"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_LockedUserIsRefused() {
	until := time.Now().Add(time.Hour)
	u := suite.user(0, &until)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()

	// even the right password is refused while locked
	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: suite.password})
	suite.ErrorIs(err, apperrors.ErrAccountLocked)
}

func (suite *AuthServiceTestSuite) TestLogin_ExpiredLockIsCleared() {
	until := time.Now().Add(-time.Minute)
	u := suite.user(3, &until)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Once()
	suite.mockUserRepo.On("RecordLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.expectSession(u.UserID, nil)

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: suite.password})
	suite.Require().NoError(err)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveUser() {
	for _, status := range []domain.UserStatus{domain.UserStatusInactive, domain.UserStatusSuspended, domain.UserStatusFrozen} {
		suite.Run(string(status), func() {
			u := suite.user(0, nil)
			u.Status = status
			suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ada@bank.test").Return(u, nil).Twice()
			suite.mockUserRepo.On("RecordFailedLogin", suite.ctx, u.UserID, mock.AnythingOfType("time.Time")).Return(1, nil, nil).Once()

			_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: suite.password})
			suite.ErrorIs(err, apperrors.ErrUserInactive)

			// a wrong password does not reveal the status
			_, err = suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ada@bank.test", Password: "wrong"})
			suite.ErrorIs(err, apperrors.ErrUnauthorized)
			suite.NotErrorIs(err, apperrors.ErrUserInactive)
		})
	}
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "ghost@bank.test").Return(nil, apperrors.ErrUserNotFound).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "ghost@bank.test", Password: "whatever"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) storedToken(raw string, userID string) *domain.RefreshToken {
	now := time.Now().UTC()
	return &domain.RefreshToken{
		TokenID:   uuid.NewString(),
		UserID:    userID,
		TokenHash: utils.HashRefreshToken(raw, suite.cfg.RefreshTokenSecret),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now.Add(-time.Hour),
	}
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_Rotates() {
	u := suite.user(0, nil)
	stored := suite.storedToken("old-refresh-token", u.UserID)
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, stored.TokenHash).Return(stored, nil).Once()
	suite.mockRefreshRepo.On("RevokeRefreshToken", suite.ctx, stored.TokenID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, u.UserID).Return(u, nil).Once()
	var saved domain.RefreshToken
	suite.expectSession(u.UserID, &saved)

	tokens, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "old-refresh-token"})

	suite.Require().NoError(err)
	suite.NotEqual("old-refresh-token", tokens.RefreshToken)
	suite.NotEqual(stored.TokenHash, saved.TokenHash)
	claims, err := utils.ParseAndValidateJWT(tokens.AccessToken, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(u.UserID, claims.Subject)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_UnknownToken() {
	hash := utils.HashRefreshToken("made-up", suite.cfg.RefreshTokenSecret)
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, hash).Return(nil, apperrors.ErrRefreshTokenMissing).Once()

	_, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "made-up"})
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_ReuseEndsAllSessions() {
	userID := uuid.NewString()
	stored := suite.storedToken("rotated-token", userID)
	revokedAt := time.Now().Add(-time.Minute)
	stored.RevokedAt = &revokedAt
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, stored.TokenHash).Return(stored, nil).Once()
	suite.mockRefreshRepo.On("RevokeUserRefreshTokens", suite.ctx, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "rotated-token"})
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_Expired() {
	stored := suite.storedToken("stale-token", uuid.NewString())
	stored.ExpiresAt = time.Now().Add(-time.Second)
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, stored.TokenHash).Return(stored, nil).Once()

	_, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "stale-token"})
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_ConcurrentRotationLoses() {
	stored := suite.storedToken("raced-token", uuid.NewString())
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, stored.TokenHash).Return(stored, nil).Once()
	suite.mockRefreshRepo.On("RevokeRefreshToken", suite.ctx, stored.TokenID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrRefreshTokenMissing).Once()

	_, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "raced-token"})
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens_InactiveUser() {
	u := suite.user(0, nil)
	u.Status = domain.UserStatusSuspended
	stored := suite.storedToken("suspended-token", u.UserID)
	suite.mockRefreshRepo.On("FindRefreshTokenByHash", suite.ctx, stored.TokenHash).Return(stored, nil).Once()
	suite.mockRefreshRepo.On("RevokeRefreshToken", suite.ctx, stored.TokenID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, u.UserID).Return(u, nil).Once()

	_, err := suite.service.RefreshTokens(suite.ctx, dto.RefreshTokenRequest{RefreshToken: "suspended-token"})
	suite.ErrorIs(err, apperrors.ErrInvalidRefreshToken)
}

func (suite *AuthServiceTestSuite) TestLogout() {
	p := domain.Principal{UserID: uuid.NewString(), Role: domain.RoleUser}
	suite.mockRefreshRepo.On("RevokeUserRefreshTokens", suite.ctx, p.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.Logout(suite.ctx, p))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
