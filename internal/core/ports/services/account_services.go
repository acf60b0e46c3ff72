package services

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account visible to the principal.
	GetAccountByID(ctx context.Context, principal domain.Principal, accountID string) (*domain.Account, error)

	// ListUserAccounts retrieves the accounts owned by the principal.
	ListUserAccounts(ctx context.Context, principal domain.Principal) ([]domain.Account, error)

	// ListAccounts retrieves a page of all accounts. Admin only.
	ListAccounts(ctx context.Context, principal domain.Principal, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// OpenAccount creates an active, zero-balance account with a fresh account number.
	OpenAccount(ctx context.Context, principal domain.Principal, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates the editable details of an account.
	UpdateAccount(ctx context.Context, principal domain.Principal, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
}

// AccountLifecycleSvc defines admin lifecycle transitions.
type AccountLifecycleSvc interface {
	// ChangeAccountStatus applies a freeze, activate or close action.
	ChangeAccountStatus(ctx context.Context, principal domain.Principal, accountID string, action domain.AccountAction) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountLifecycleSvc
}
