// Package memory keeps accounts, users, sessions and transactions in process memory.
// It implements the same repository ports as the PostgreSQL adapter and is
// used for local runs and tests.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
)

// Store is the shared state behind the in-memory repositories. mu guards the
// maps; per-account exclusion for balance updates is handled by locks.
type Store struct {
	mu             sync.RWMutex
	accounts       map[string]domain.Account
	accountNumbers map[string]string
	users          map[string]domain.User
	emails         map[string]string
	transactions   []domain.Transaction
	txnIndex       map[string]int
	idempotency    map[string]string
	refreshTokens  map[string]domain.RefreshToken
	refreshHashes  map[string]string

	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore creates an empty store. lockTimeout bounds how long a unit of work
// waits for account locks before failing with apperrors.ErrBusy.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:       make(map[string]domain.Account),
		accountNumbers: make(map[string]string),
		users:          make(map[string]domain.User),
		emails:         make(map[string]string),
		txnIndex:       make(map[string]int),
		idempotency:    make(map[string]string),
		refreshTokens:  make(map[string]domain.RefreshToken),
		refreshHashes:  make(map[string]string),
		locks:          newLockTable(),
		lockTimeout:    lockTimeout,
	}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newAccountRepository(store),
		TransactionRepo:  newTransactionRepository(store),
		UserRepo:         newUserRepository(store),
		RefreshTokenRepo: newRefreshTokenRepository(store),
		TxManager:        newTxManager(store),
	}
}

// SeedUser inserts a user without validation. Intended for bootstrap data.
func (s *Store) SeedUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	s.emails[user.Email] = user.UserID
}

// SeedAccount inserts an account as-is, bypassing owner checks. Intended for
// the vault account and tests.
func (s *Store) SeedAccount(account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := s.accountNumbers[account.AccountNumber]; ok {
		return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
	}
	s.accounts[account.AccountID] = account
	s.accountNumbers[account.AccountNumber] = account.AccountID
	return nil
}

// pageBounds returns the slice window for limit/offset paging over total
// items. A non-positive limit means no limit.
func pageBounds(total, limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}
	if offset >= total {
		return total, total, nil
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	return offset, end, nil
}
