package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

func newAccountRepository(store *Store) portsrepo.AccountRepositoryFacade {
	return &accountRepository{store: store}
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[account.UserID]; !ok {
		return fmt.Errorf("%w: owner %s does not exist", apperrors.ErrValidation, account.UserID)
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := s.accountNumbers[account.AccountNumber]; ok {
		return fmt.Errorf("%w: account number already issued", apperrors.ErrDuplicate)
	}
	s.accounts[account.AccountID] = account
	s.accountNumbers[account.AccountNumber] = account.AccountID
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	acc, ok := r.store.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.accountNumbers[accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: number %s", apperrors.ErrAccountNotFound, accountNumber)
	}
	acc := r.store.accounts[id]
	return &acc, nil
}

func (r *accountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	r.store.mu.RLock()
	list := make([]domain.Account, 0)
	for _, acc := range r.store.accounts {
		if acc.UserID == userID {
			list = append(list, acc)
		}
	}
	r.store.mu.RUnlock()
	sortAccounts(list)
	return list, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	r.store.mu.RLock()
	list := make([]domain.Account, 0, len(r.store.accounts))
	for _, acc := range r.store.accounts {
		list = append(list, acc)
	}
	r.store.mu.RUnlock()
	sortAccounts(list)

	start, end, err := pageBounds(len(list), limit, offset)
	if err != nil {
		return nil, err
	}
	return list[start:end], nil
}

func (r *accountRepository) UpdateAccountType(ctx context.Context, accountID string, accountType domain.AccountType, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	acc, ok := r.store.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	acc.AccountType = accountType
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	r.store.accounts[accountID] = acc
	return nil
}

func sortAccounts(list []domain.Account) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].AccountID < list[j].AccountID
	})
}
