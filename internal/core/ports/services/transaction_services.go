package services

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
)

// TransactionWriterSvc executes money movements.
type TransactionWriterSvc interface {
	// CreateTransaction validates, executes and records a transaction atomically.
	CreateTransaction(ctx context.Context, principal domain.Principal, cmd domain.TransactionCommand) (*domain.Transaction, error)
}

// TransactionReaderSvc queries recorded transactions.
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, principal domain.Principal, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, principal domain.Principal, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
