package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/google/uuid"
)

// transactionService validates, executes and records money movements.
type transactionService struct {
	BaseService
	accountRepo    portsrepo.AccountReader
	txnRepo        portsrepo.TransactionReader
	txManager      portsrepo.TransactionManager
	vaultAccountID string
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithVaultAccount sets the system account used as the untouched side of
// deposits and withdrawals when the request leaves it empty.
func WithVaultAccount(accountID string) TransactionServiceOption {
	return func(s *transactionService) {
		s.vaultAccountID = accountID
	}
}

// WithTransactionEventPublisher publishes recorded transactions after commit.
func WithTransactionEventPublisher(p events.Publisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.Publisher = p
	}
}

// WithTransactionClock overrides the clock used to stamp records.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates the transaction engine.
func NewTransactionService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, txManager portsrepo.TransactionManager, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction resolves both accounts, locks the ones whose balance
// changes, re-checks lifecycle and balance under the lock, and writes the
// balances and the record in a single unit of work.
func (s *transactionService) CreateTransaction(ctx context.Context, principal domain.Principal, cmd domain.TransactionCommand) (*domain.Transaction, error) {
	cmd, err := s.completeCommand(cmd)
	if err != nil {
		return nil, err
	}
	if !cmd.Executes() && !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators may record failed transactions", apperrors.ErrForbidden)
	}

	from, to, err := s.resolveAccounts(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := authorizeMovement(principal, cmd, from, to); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		FromAccountID:  cmd.FromAccountID,
		ToAccountID:    cmd.ToAccountID,
		Amount:         cmd.Amount,
		Type:           cmd.Type,
		Status:         cmd.Status,
		Description:    cmd.Description,
		IdempotencyKey: cmd.IdempotencyKey,
		CreatedBy:      principal.UserID,
	}

	var replayed *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.LockAccounts(ctx, cmd.ParticipantIDs())
		if err != nil {
			return err
		}
		// stamped under the lock so record order follows the order balances were applied
		txn.Timestamp = s.Now()

		if cmd.IdempotencyKey != "" {
			existing, err := tx.FindTransactionByIdempotencyKey(ctx, cmd.IdempotencyKey)
			switch {
			case err == nil:
				replayed = existing
				return nil
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}
		}

		// balances read before locking are stale; use the locked copies
		if acc, ok := locked[from.AccountID]; ok {
			from = &acc
		}
		if acc, ok := locked[to.AccountID]; ok {
			to = &acc
		}

		changes, err := domain.PlanTransaction(cmd, *from, *to)
		if err != nil {
			return err
		}
		for _, ch := range changes {
			if err := tx.UpdateAccountBalance(ctx, ch.AccountID, ch.Before, ch.After, principal.UserID, txn.Timestamp); err != nil {
				return err
			}
		}
		return tx.InsertTransaction(ctx, txn)
	})

	if err != nil && cmd.IdempotencyKey != "" && errors.Is(err, apperrors.ErrDuplicate) {
		// another request with the same key committed first
		existing, findErr := s.txnRepo.FindTransactionByIdempotencyKey(ctx, cmd.IdempotencyKey)
		if findErr != nil {
			s.LogError(ctx, findErr, "Failed to load transaction for idempotency key")
			return nil, err
		}
		replayed, err = existing, nil
	}
	if err != nil {
		s.logFailure(ctx, err, cmd)
		return nil, err
	}

	if replayed != nil {
		if !sameMovement(*replayed, cmd, principal) {
			return nil, fmt.Errorf("%w: idempotency key was used for a different transaction", apperrors.ErrDuplicate)
		}
		s.LogInfo(ctx, "Idempotent replay of transaction",
			slog.String("transaction_id", replayed.TransactionID))
		return replayed, nil
	}

	s.LogInfo(ctx, "Transaction recorded successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("status", string(txn.Status)),
		slog.String("amount", txn.Amount.StringFixed(2)))

	s.publishTransaction(ctx, events.TransactionEvent{
		EventID:     uuid.NewString(),
		Type:        events.TransactionCreated,
		OccurredAt:  txn.Timestamp,
		Transaction: txn,
	})
	return &txn, nil
}

// completeCommand fills the untouched side of deposits and withdrawals with the vault account.
func (s *transactionService) completeCommand(cmd domain.TransactionCommand) (domain.TransactionCommand, error) {
	switch {
	case cmd.Type == domain.TransactionTypeDeposit && cmd.FromAccountID == "":
		cmd.FromAccountID = s.vaultAccountID
	case cmd.Type == domain.TransactionTypeWithdrawal && cmd.ToAccountID == "":
		cmd.ToAccountID = s.vaultAccountID
	}
	if cmd.FromAccountID == "" || cmd.ToAccountID == "" {
		return cmd, fmt.Errorf("%w: fromAccount and toAccount are required", apperrors.ErrValidation)
	}
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func (s *transactionService) resolveAccounts(ctx context.Context, cmd domain.TransactionCommand) (*domain.Account, *domain.Account, error) {
	from, err := s.accountRepo.FindAccountByID(ctx, cmd.FromAccountID)
	if err != nil {
		return nil, nil, accountLookupError(err, cmd.FromAccountID)
	}
	to, err := s.accountRepo.FindAccountByID(ctx, cmd.ToAccountID)
	if err != nil {
		return nil, nil, accountLookupError(err, cmd.ToAccountID)
	}
	return from, to, nil
}

func accountLookupError(err error, accountID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: one or both accounts not found (%s)", apperrors.ErrAccountNotFound, accountID)
	}
	return err
}

// authorizeMovement lets users move money out of, or deposit into, their own accounts only.
func authorizeMovement(principal domain.Principal, cmd domain.TransactionCommand, from, to *domain.Account) error {
	if principal.IsAdmin() {
		return nil
	}
	if cmd.Type.DebitsSource() && from.UserID != principal.UserID {
		return fmt.Errorf("%w: source account does not belong to you", apperrors.ErrForbidden)
	}
	if cmd.Type == domain.TransactionTypeDeposit && to.UserID != principal.UserID {
		return fmt.Errorf("%w: destination account does not belong to you", apperrors.ErrForbidden)
	}
	return nil
}

func sameMovement(t domain.Transaction, cmd domain.TransactionCommand, principal domain.Principal) bool {
	return t.CreatedBy == principal.UserID &&
		t.Type == cmd.Type &&
		t.FromAccountID == cmd.FromAccountID &&
		t.ToAccountID == cmd.ToAccountID &&
		t.Amount.Equal(cmd.Amount) &&
		t.Status == cmd.Status
}

func (s *transactionService) logFailure(ctx context.Context, err error, cmd domain.TransactionCommand) {
	attrs := []any{
		slog.String("type", string(cmd.Type)),
		slog.String("from_account", cmd.FromAccountID),
		slog.String("to_account", cmd.ToAccountID),
	}
	switch {
	case errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrAccountNotActive),
		errors.Is(err, apperrors.ErrBusy),
		errors.Is(err, apperrors.ErrConflict):
		s.GetLogger(ctx).Warn("Transaction rejected", append(attrs, slog.String("reason", err.Error()))...)
	default:
		s.LogError(ctx, err, "Transaction failed", attrs...)
	}
}

func (s *transactionService) GetTransactionByID(ctx context.Context, principal domain.Principal, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if principal.IsAdmin() {
		return txn, nil
	}

	for _, id := range []string{txn.FromAccountID, txn.ToAccountID} {
		acc, err := s.accountRepo.FindAccountByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if acc.UserID == principal.UserID {
			return txn, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, transactionID)
}

// ListTransactions returns a page of transactions. Users only see transactions
// touching their own accounts; admins may scope by any user or see all.
func (s *transactionService) ListTransactions(ctx context.Context, principal domain.Principal, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	params = params.Normalize()

	scopeUserID := params.UserID
	if !principal.IsAdmin() {
		if scopeUserID != "" && scopeUserID != principal.UserID {
			return nil, fmt.Errorf("%w: cannot list another user's transactions", apperrors.ErrForbidden)
		}
		scopeUserID = principal.UserID
	}

	filter := portsrepo.TransactionFilter{}
	if scopeUserID != "" {
		accounts, err := s.accountRepo.ListAccountsByUserID(ctx, scopeUserID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list user accounts", slog.String("scope_user_id", scopeUserID))
			return nil, err
		}
		if len(accounts) == 0 {
			return dto.ToListTransactionsResponse(nil, params, 0), nil
		}
		filter.AccountIDs = make([]string, len(accounts))
		for i, acc := range accounts {
			filter.AccountIDs[i] = acc.AccountID
		}
	}

	txns, count, err := s.txnRepo.ListTransactions(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	return dto.ToListTransactionsResponse(txns, params, count), nil
}
