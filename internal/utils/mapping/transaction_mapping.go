package mapping

import (
	"database/sql"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// An empty idempotency key is stored as NULL so the unique index ignores it.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		FromAccountID:  d.FromAccountID,
		ToAccountID:    d.ToAccountID,
		Amount:         d.Amount,
		Type:           string(d.Type),
		Status:         string(d.Status),
		Description:    d.Description,
		IdempotencyKey: sql.NullString{String: d.IdempotencyKey, Valid: d.IdempotencyKey != ""},
		Timestamp:      d.Timestamp,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		FromAccountID:  m.FromAccountID,
		ToAccountID:    m.ToAccountID,
		Amount:         m.Amount,
		Type:           domain.TransactionType(m.Type),
		Status:         domain.TransactionStatus(m.Status),
		Description:    m.Description,
		IdempotencyKey: m.IdempotencyKey.String,
		Timestamp:      m.Timestamp,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
