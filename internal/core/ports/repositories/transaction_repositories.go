package repositories

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	// AccountIDs restricts results to transactions where either side is in the set.
	// A nil slice means no restriction; an empty non-nil slice matches nothing.
	AccountIDs []string
}

// TransactionReader defines read operations for transaction records.
// Records are append-only, so there is no writer outside LedgerTx.
type TransactionReader interface {
	// FindTransactionByID retrieves a single transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey retrieves the transaction recorded under key.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListTransactions returns a page ordered by timestamp descending together
	// with the total number of records matching the filter.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit int, offset int) ([]domain.Transaction, int, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
}
