package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens an active, zero-balance account for the caller. Admins may open one for another user.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.Envelope{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	newAccount, err := h.accountService.OpenAccount(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err, "Failed to open account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.Success("Account created successfully", dto.ToAccountResponse(newAccount)))
}

// listAccounts godoc
// @Summary List my accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.Envelope{data=[]dto.AccountResponse}
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListUserAccounts(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Accounts retrieved successfully", dto.ToAccountResponses(accounts)))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves one account. Users only see their own accounts.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.Envelope{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), principal, accountID)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Account retrieved successfully", dto.ToAccountResponse(account)))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes the account type. Balance, status and number cannot be edited here.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), principal, accountID, req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Account updated successfully", dto.ToAccountResponse(updated)))
}
