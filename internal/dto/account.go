package dto

import (
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open an account.
// Admins may open an account on behalf of another user via UserID.
type CreateAccountRequest struct {
	AccountType string `json:"accountType" binding:"required,oneof=current savings"`
	UserID      string `json:"userID,omitempty" binding:"omitempty,uuid"`
}

// UpdateAccountRequest defines the data allowed when updating an account.
// Balance, status and account number are not editable here.
type UpdateAccountRequest struct {
	AccountType *string `json:"accountType" binding:"omitempty,oneof=current savings"`
}

// UpdateAccountStatusParams is the query string of the admin status endpoint.
type UpdateAccountStatusParams struct {
	Action string `form:"action" binding:"required"`
}

// ListAccountsParams defines query parameters for listing all accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0,max=100000000"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	UserID        string               `json:"userID"`
	AccountNumber string               `json:"accountNumber"`
	AccountType   domain.AccountType   `json:"accountType"`
	Balance       string               `json:"balance" example:"100.00"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		UserID:        acc.UserID,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.AccountType,
		Balance:       acc.Balance.StringFixed(2),
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return list
}
