package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry a transaction without applying it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Executes a transfer, deposit or withdrawal and records it. Admins may record a failed transaction without moving money.
// @Tags transactions
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client key that makes retries safe"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.Envelope{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorEnvelope "Validation error, inactive account or insufficient balance"
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope "One or both accounts not found"
// @Failure 409 {object} dto.ErrorEnvelope "Account busy or idempotency key reused"
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cmd, err := req.ToCommand(c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondError(c, err, "Invalid transaction request")
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("type", string(cmd.Type)),
		slog.String("from_account", cmd.FromAccountID),
		slog.String("to_account", cmd.ToAccountID))

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), principal, cmd)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.Success("Transaction Successfully Done", dto.ToTransactionResponse(txn)))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first. Users see transactions touching their own accounts; admins may filter by userId or see all.
// @Tags transactions
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param userId query string false "Restrict to one user's accounts"
// @Success 200 {object} dto.ListEnvelope{data=[]dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 403 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), principal, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListEnvelope{
		Status:  true,
		Message: "Transactions retrieved successfully",
		Data:    resp.Data,
		Page:    resp.Page,
		Limit:   resp.Limit,
		Count:   resp.Count,
	})
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.Envelope{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorEnvelope
// @Failure 401 {object} dto.ErrorEnvelope
// @Failure 404 {object} dto.ErrorEnvelope
// @Failure 500 {object} dto.ErrorEnvelope
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.Success("Transaction retrieved successfully", dto.ToTransactionResponse(txn)))
}
