package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxAccountNumberAttempts bounds regeneration after account number collisions.
const maxAccountNumberAttempts = 5

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	txManager       portsrepo.TransactionManager
	numberGenerator func() (string, error)
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountNumberGenerator replaces the random account number source.
func WithAccountNumberGenerator(fn func() (string, error)) AccountServiceOption {
	return func(s *accountService) {
		s.numberGenerator = fn
	}
}

// WithAccountEventPublisher publishes lifecycle changes after commit.
func WithAccountEventPublisher(p events.Publisher) AccountServiceOption {
	return func(s *accountService) {
		s.Publisher = p
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		txManager:   txManager,
		numberGenerator: func() (string, error) {
			return utils.GenerateNumericCode(domain.AccountNumberLength)
		},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) OpenAccount(ctx context.Context, principal domain.Principal, req dto.CreateAccountRequest) (*domain.Account, error) {
	ownerID := principal.UserID
	if req.UserID != "" && req.UserID != principal.UserID {
		if !principal.IsAdmin() {
			return nil, fmt.Errorf("%w: cannot open an account for another user", apperrors.ErrForbidden)
		}
		ownerID = req.UserID
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      ownerID,
		AccountType: accountType,
		Balance:     decimal.Zero,
		Status:      domain.AccountStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		number, err := s.numberGenerator()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate account number")
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}
		if err := domain.ValidateAccountNumber(number); err != nil {
			return nil, fmt.Errorf("generated account number rejected: %w", err)
		}
		account.AccountNumber = number

		err = s.accountRepo.SaveAccount(ctx, account)
		if err == nil {
			s.LogInfo(ctx, "Account opened successfully",
				slog.String("account_id", account.AccountID),
				slog.String("owner_id", ownerID),
				slog.String("account_type", string(accountType)))
			return &account, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("owner_id", ownerID))
			return nil, fmt.Errorf("failed to open account: %w", err)
		}
		s.LogDebug(ctx, "Account number collision, regenerating", slog.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("%w: could not allocate a unique account number", apperrors.ErrConflict)
}

// GetAccountByID hides accounts the principal may not see behind a not-found error.
func (s *accountService) GetAccountByID(ctx context.Context, principal domain.Principal, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(account.UserID) {
		s.LogDebug(ctx, "Account access denied", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *accountService) ListUserAccounts(ctx context.Context, principal domain.Principal) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByUserID(ctx, principal.UserID)
}

func (s *accountService) ListAccounts(ctx context.Context, principal domain.Principal, params dto.ListAccountsParams) ([]domain.Account, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	limit := params.Limit
	if limit <= 0 {
		limit = dto.DefaultLimit
	}
	return s.accountRepo.ListAccounts(ctx, limit, params.Offset)
}

func (s *accountService) UpdateAccount(ctx context.Context, principal domain.Principal, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, principal, accountID)
	if err != nil {
		return nil, err
	}
	if req.AccountType == nil {
		return account, nil
	}
	if account.Status == domain.AccountStatusClosed {
		return nil, fmt.Errorf("%w: account %s is closed", apperrors.ErrAccountNotActive, account.AccountNumber)
	}

	accountType, err := domain.ParseAccountType(*req.AccountType)
	if err != nil {
		return nil, err
	}
	if accountType == account.AccountType {
		return account, nil
	}

	now := s.Now()
	if err := s.accountRepo.UpdateAccountType(ctx, accountID, accountType, principal.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	account.AccountType = accountType
	account.LastUpdatedAt = now
	account.LastUpdatedBy = principal.UserID
	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// ChangeAccountStatus runs the transition under the account lock so it cannot
// interleave with an in-flight transaction on the same account.
func (s *accountService) ChangeAccountStatus(ctx context.Context, principal domain.Principal, accountID string, action domain.AccountAction) (*domain.Account, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	var updated domain.Account
	var previous domain.AccountStatus
	now := s.Now()

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.LockAccounts(ctx, []string{accountID})
		if err != nil {
			return err
		}
		account, ok := locked[accountID]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}

		next, err := account.Status.Transition(action)
		if err != nil {
			return err
		}
		if err := tx.UpdateAccountStatus(ctx, accountID, next, principal.UserID, now); err != nil {
			return err
		}

		previous = account.Status
		account.Status = next
		account.LastUpdatedAt = now
		account.LastUpdatedBy = principal.UserID
		updated = account
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change account status",
			slog.String("account_id", accountID),
			slog.String("action", string(action)))
		return nil, err
	}

	s.LogInfo(ctx, "Account status changed successfully",
		slog.String("account_id", accountID),
		slog.String("from", string(previous)),
		slog.String("to", string(updated.Status)))

	s.publishAccountStatus(ctx, events.AccountStatusEvent{
		EventID:    uuid.NewString(),
		Type:       events.AccountStatusChanged,
		OccurredAt: now,
		AccountID:  accountID,
		From:       previous,
		To:         updated.Status,
		ChangedBy:  principal.UserID,
	})
	return &updated, nil
}
