package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type txManager struct {
	store *Store
}

func newTxManager(store *Store) portsrepo.TransactionManager {
	return &txManager{store: store}
}

var _ portsrepo.TransactionManager = (*txManager)(nil)

// WithinTx buffers writes and applies them in one critical section on commit.
// Account locks are released after the commit so no other unit of work can
// read a balance between check and write.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx := &ledgerTx{
		store:    m.store,
		held:     make(map[string]bool),
		balances: make(map[string]decimal.Decimal),
		statuses: make(map[string]domain.AccountStatus),
		stamps:   make(map[string]auditStamp),
	}
	defer tx.releaseAll()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

type auditStamp struct {
	by string
	at time.Time
}

type ledgerTx struct {
	store    *Store
	held     map[string]bool
	releases []func()

	balances map[string]decimal.Decimal
	statuses map[string]domain.AccountStatus
	stamps   map[string]auditStamp
	inserts  []domain.Transaction
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	pending := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		if !t.held[id] {
			pending = append(pending, id)
		}
	}
	if len(pending) > 0 {
		release, err := t.store.locks.acquire(ctx, pending, t.store.lockTimeout)
		if err != nil {
			return nil, err
		}
		t.releases = append(t.releases, release)
		for _, id := range pending {
			t.held[id] = true
		}
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	locked := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		acc, ok := t.store.accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
		if b, ok := t.balances[id]; ok {
			acc.Balance = b
		}
		if st, ok := t.statuses[id]; ok {
			acc.Status = st
		}
		locked[id] = acc
	}
	return locked, nil
}

func (t *ledgerTx) UpdateAccountBalance(ctx context.Context, accountID string, expected, next decimal.Decimal, userID string, now time.Time) error {
	if !t.held[accountID] {
		return apperrors.NewStorageError("balance update on unlocked account "+accountID, nil)
	}
	if next.IsNegative() {
		return fmt.Errorf("%w: balance of %s would become negative", apperrors.ErrInsufficientBalance, accountID)
	}

	current, ok := t.balances[accountID]
	if !ok {
		t.store.mu.RLock()
		acc, exists := t.store.accounts[accountID]
		t.store.mu.RUnlock()
		if !exists {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		current = acc.Balance
	}
	if !current.Equal(expected) {
		return fmt.Errorf("%w: balance of %s changed concurrently", apperrors.ErrConflict, accountID)
	}

	t.balances[accountID] = next
	t.stamps[accountID] = auditStamp{by: userID, at: now}
	return nil
}

func (t *ledgerTx) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	if !t.held[accountID] {
		return apperrors.NewStorageError("status update on unlocked account "+accountID, nil)
	}
	t.statuses[accountID] = status
	t.stamps[accountID] = auditStamp{by: userID, at: now}
	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if err := t.store.checkTransactionUnique(txn); err != nil {
		return err
	}
	for _, p := range t.inserts {
		if p.TransactionID == txn.TransactionID || (txn.IdempotencyKey != "" && p.IdempotencyKey == txn.IdempotencyKey) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
	}
	t.inserts = append(t.inserts, txn)
	return nil
}

func (t *ledgerTx) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	for i := range t.inserts {
		if t.inserts[i].IdempotencyKey == key {
			txn := t.inserts[i]
			return &txn, nil
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.findByIdempotencyKey(key)
}

func (t *ledgerTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// a concurrent unit of work on other accounts may have used the same key
	for _, txn := range t.inserts {
		if err := s.checkTransactionUnique(txn); err != nil {
			return err
		}
	}

	for id, b := range t.balances {
		acc := s.accounts[id]
		acc.Balance = b
		s.accounts[id] = acc
	}
	for id, st := range t.statuses {
		acc := s.accounts[id]
		acc.Status = st
		s.accounts[id] = acc
	}
	for id, stamp := range t.stamps {
		acc := s.accounts[id]
		acc.LastUpdatedAt = stamp.at
		acc.LastUpdatedBy = stamp.by
		s.accounts[id] = acc
	}
	for _, txn := range t.inserts {
		s.txnIndex[txn.TransactionID] = len(s.transactions)
		s.transactions = append(s.transactions, txn)
		if txn.IdempotencyKey != "" {
			s.idempotency[txn.IdempotencyKey] = txn.TransactionID
		}
	}
	return nil
}

func (t *ledgerTx) releaseAll() {
	for i := len(t.releases) - 1; i >= 0; i-- {
		t.releases[i]()
	}
	t.releases = nil
}
