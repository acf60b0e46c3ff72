package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its 10 digit account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccountsByUserID retrieves every account owned by a user, oldest first.
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// ListAccounts retrieves a page of all accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data outside the ledger unit of work.
type AccountWriter interface {
	// SaveAccount persists a new account. A clashing account number yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountType changes the product type of an account.
	UpdateAccountType(ctx context.Context, accountID string, accountType domain.AccountType, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
