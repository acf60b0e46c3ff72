package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// AuthHandler handles registration, login and session management.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, as portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{userService: us, authService: as}
}

// RegisterAuthRoutes sets up the public authentication routes. loginLimiter
// may be nil to disable throttling of login and refresh attempts.
func RegisterAuthRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, authService portssvc.AuthSvcFacade, loginLimiter *limiter.Limiter) {
	h := NewAuthHandler(userService, authService)

	throttled := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if loginLimiter == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{middleware.RateLimit(loginLimiter), handler}
	}

	auth := rg.Group("/auth")
	{
		auth.POST("/login", throttled(h.Login)...)
		auth.POST("/refresh-token", throttled(h.RefreshToken)...)
		auth.POST("/register", h.Register)
	}
}

// RegisterSessionRoutes sets up the authentication routes that need a valid
// access token. Callers must already have authenticated the request.
func RegisterSessionRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, authService portssvc.AuthSvcFacade) {
	h := NewAuthHandler(userService, authService)

	auth := rg.Group("/auth")
	{
		auth.GET("/me", h.Me)
		auth.POST("/logout", h.Logout)
	}
}

// Login godoc
// @Summary User login
// @Description Authenticates a user by email and password and returns a JWT access token with a refresh token. Five consecutive failures lock the user out for two hours. Deactivated users are refused.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 423 {object} dto.ErrorEnvelope
// @Failure 429 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Login successful", resp))
}

// Register godoc
// @Summary Register new user
// @Description Creates a user and opens their first account with a zero balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterUserRequest true "Registration details"
// @Success 201 {object} dto.Envelope{data=dto.RegisterResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 409 {object} dto.ErrorEnvelope "Email already registered"
// @Failure 500 {object} dto.ErrorEnvelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, account, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	// the user and account already exist, so a token failure only means the
	// client has to log in separately
	tokens, err := h.authService.IssueTokens(c.Request.Context(), user)
	if err != nil {
		logger.Warn("Registered user without a session", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.Success("User registered successfully", dto.RegisterResponse{
		User:       dto.ToUserResponse(user),
		Account:    dto.ToAccountResponse(account),
		AuthTokens: tokens,
	}))
}

// RefreshToken godoc
// @Summary Refresh session tokens
// @Description Exchanges a refresh token for a new access and refresh token pair. Each refresh token works once; reusing one ends every session of its user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.Envelope{data=dto.AuthTokens}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 429 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.authService.RefreshTokens(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Token refresh failed")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Token refreshed successfully", tokens))
}

// Me godoc
// @Summary Current user
// @Description Returns the profile of the authenticated user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), principal, principal.UserID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, dto.Success("User retrieved successfully", dto.ToUserResponse(user)))
}

// Logout godoc
// @Summary Log out
// @Description Revokes every refresh token of the authenticated user. Issued access tokens stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), principal); err != nil {
		respondError(c, err, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, dto.Success("User logged out successfully", nil))
}
