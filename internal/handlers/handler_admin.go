package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type adminHandler struct {
	accountService portssvc.AccountSvcFacade
	userService    portssvc.UserSvcFacade
}

// RegisterAdminRoutes registers the back-office routes. Callers must already
// have authenticated the request; the admin role is enforced here.
func RegisterAdminRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, userService portssvc.UserSvcFacade) {
	h := &adminHandler{accountService: accountService, userService: userService}

	admin := rg.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.PUT("/account/:id/status", h.updateAccountStatus)
		admin.GET("/accounts", h.listAccounts)

		admin.GET("/users", h.listUsers)
		admin.GET("/users/:id", h.getUser)
		admin.PUT("/users/:id/status", h.updateUserStatus)
		admin.PUT("/users/:id/freeze", h.setUserStatus(domain.UserStatusFrozen, "User account has been frozen successfully"))
		admin.PUT("/users/:id/unfreeze", h.setUserStatus(domain.UserStatusActive, "User account has been unfrozen successfully"))
	}
}

// updateAccountStatus godoc
// @Summary Change an account's status
// @Description Applies a lifecycle action. active→frozen (freeze), frozen→active (activate), active|frozen→closed (close). Closed is terminal.
// @Tags admin
// @Produce json
// @Param id path string true "Account ID"
// @Param action query string true "freeze, activate or close"
// @Success 200 {object} dto.Envelope{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 409 {object} dto.ErrorEnvelope "Transition not allowed from the current status"
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/account/{id}/status [put]
func (h *adminHandler) updateAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var params dto.UpdateAccountStatusParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	action, err := domain.ParseAccountAction(params.Action)
	if err != nil {
		respondError(c, err, "Invalid account action")
		return
	}

	account, err := h.accountService.ChangeAccountStatus(c.Request.Context(), principal, accountID, action)
	if err != nil {
		respondError(c, err, "Failed to change account status")
		return
	}

	logger.Info("Account status changed",
		slog.String("account_id", accountID),
		slog.String("status", string(account.Status)))
	c.JSON(http.StatusOK, dto.Success(fmt.Sprintf("Account %s successfully", action.PastTense()), dto.ToAccountResponse(account)))
}

// listAccounts godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 10, max 100)"
// @Param offset query int false "Records to skip"
// @Success 200 {object} dto.Envelope{data=[]dto.AccountResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/accounts [get]
func (h *adminHandler) listAccounts(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), principal, params)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Accounts retrieved successfully", dto.ToAccountResponses(accounts)))
}

// listUsers godoc
// @Summary List users
// @Description Returns users newest first. search matches name or email, case-insensitively.
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "active, inactive, suspended or frozen"
// @Param role query string false "user or admin"
// @Param search query string false "Name or email fragment"
// @Success 200 {object} dto.ListEnvelope{data=[]dto.UserResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *adminHandler) listUsers(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userService.ListUsers(c.Request.Context(), principal, params)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ListEnvelope{
		Status:  true,
		Message: "Users retrieved successfully",
		Data:    resp.Data,
		Page:    resp.Page,
		Limit:   resp.Limit,
		Count:   resp.Count,
	})
}

// getUser godoc
// @Summary Get a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *adminHandler) getUser(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), principal, userID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, dto.Success("User retrieved successfully", dto.ToUserResponse(user)))
}

// updateUserStatus godoc
// @Summary Change a user's status
// @Description Sets whether the user may sign in. Any status other than active also revokes the user's refresh tokens. Admins cannot change their own status.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/users/{id}/status [put]
func (h *adminHandler) updateUserStatus(c *gin.Context) {
	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	status, err := domain.ParseUserStatus(req.Status)
	if err != nil {
		respondError(c, err, "Invalid user status")
		return
	}
	h.changeUserStatus(c, status, fmt.Sprintf("User status has been updated to %s successfully", status))
}

// setUserStatus godoc
// @Summary Freeze or unfreeze a user
// @Description freeze sets the status to frozen and ends the user's sessions; unfreeze sets it back to active.
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /admin/users/{id}/freeze [put]
// @Router /admin/users/{id}/unfreeze [put]
func (h *adminHandler) setUserStatus(status domain.UserStatus, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.changeUserStatus(c, status, message)
	}
}

func (h *adminHandler) changeUserStatus(c *gin.Context, status domain.UserStatus, message string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ChangeUserStatus(c.Request.Context(), principal, userID, status)
	if err != nil {
		respondError(c, err, "Failed to change user status")
		return
	}

	logger.Info("User status changed", slog.String("user_id", userID), slog.String("status", string(user.Status)))
	c.JSON(http.StatusOK, dto.Success(message, dto.ToUserResponse(user)))
}
