package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
)

type transactionRepository struct {
	store *Store
}

func newTransactionRepository(store *Store) portsrepo.TransactionRepositoryFacade {
	return &transactionRepository{store: store}
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	idx, ok := r.store.txnIndex[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, transactionID)
	}
	txn := r.store.transactions[idx]
	return &txn, nil
}

func (r *transactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.findByIdempotencyKey(key)
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, offset int) ([]domain.Transaction, int, error) {
	var accountSet map[string]struct{}
	if filter.AccountIDs != nil {
		accountSet = make(map[string]struct{}, len(filter.AccountIDs))
		for _, id := range filter.AccountIDs {
			accountSet[id] = struct{}{}
		}
	}

	r.store.mu.RLock()
	matched := make([]domain.Transaction, 0)
	for _, txn := range r.store.transactions {
		if accountSet != nil {
			_, fromMatch := accountSet[txn.FromAccountID]
			_, toMatch := accountSet[txn.ToAccountID]
			if !fromMatch && !toMatch {
				continue
			}
		}
		matched = append(matched, txn)
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].TransactionID > matched[j].TransactionID
	})

	total := len(matched)
	start, end, err := pageBounds(total, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return matched[start:end], total, nil
}

// checkTransactionUnique must be called with mu held.
func (s *Store) checkTransactionUnique(txn domain.Transaction) error {
	if _, ok := s.txnIndex[txn.TransactionID]; ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	if txn.IdempotencyKey != "" {
		if _, ok := s.idempotency[txn.IdempotencyKey]; ok {
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		}
	}
	return nil
}

// findByIdempotencyKey must be called with mu held.
func (s *Store) findByIdempotencyKey(key string) (*domain.Transaction, error) {
	id, ok := s.idempotency[key]
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key", apperrors.ErrTransactionNotFound)
	}
	txn := s.transactions[s.txnIndex[id]]
	return &txn, nil
}
