package dto

import (
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Paging defaults for transaction listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit well inside int range.
	MaxPage = 1000000
)

// CreateTransactionRequest is the body of POST /transactions.
type CreateTransactionRequest struct {
	FromAccount string          `json:"fromAccount" binding:"omitempty,uuid" example:"7f0b2a2e-5c1d-4b8e-9a51-0d3c1f6e2b11"`
	ToAccount   string          `json:"toAccount" binding:"omitempty,uuid" example:"0c8f9a6d-3e2b-4f71-8d0a-6b5e4c3d2a19"`
	Amount      decimal.Decimal `json:"amount" binding:"money" swaggertype:"string" example:"40.00"`
	Type        string          `json:"type" binding:"required,oneof=transfer deposit withdrawal"`
	Status      string          `json:"status,omitempty" binding:"omitempty,oneof=success failed"`
	Description string          `json:"description,omitempty" binding:"max=255"`
}

// ToCommand converts the request into a domain command, failing on anything
// the domain cannot accept.
func (r CreateTransactionRequest) ToCommand(idempotencyKey string) (domain.TransactionCommand, error) {
	return domain.NewTransactionCommand(r.FromAccount, r.ToAccount, r.Amount, r.Type, r.Status, r.Description, idempotencyKey)
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Page   int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	UserID string `form:"userId" binding:"omitempty,uuid"`
}

// Normalize fills in defaults and clamps the page and limit.
func (p ListTransactionsParams) Normalize() ListTransactionsParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of records to skip for the page.
func (p ListTransactionsParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	FromAccount   string                   `json:"fromAccount"`
	ToAccount     string                   `json:"toAccount"`
	Amount        string                   `json:"amount" example:"40.00"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	Description   string                   `json:"description,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
	CreatedBy     string                   `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to a TransactionResponse.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		FromAccount:   t.FromAccountID,
		ToAccount:     t.ToAccountID,
		Amount:        t.Amount.StringFixed(2),
		Type:          t.Type,
		Status:        t.Status,
		Description:   t.Description,
		Timestamp:     t.Timestamp,
		CreatedBy:     t.CreatedBy,
	}
}

// ListTransactionsResponse is a page of transactions plus the total match count.
type ListTransactionsResponse struct {
	Data  []TransactionResponse `json:"data"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Count int                   `json:"count"`
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, params ListTransactionsParams, count int) *ListTransactionsResponse {
	data := make([]TransactionResponse, len(txns))
	for i := range txns {
		data[i] = ToTransactionResponse(&txns[i])
	}
	return &ListTransactionsResponse{Data: data, Page: params.Page, Limit: params.Limit, Count: count}
}
