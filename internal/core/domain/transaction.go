package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds the free-text description on a transaction.
const MaxDescriptionLength = 255

// MaxAmountDigits bounds the integer part of an amount (NUMERIC(20,2)).
const MaxAmountDigits = 18

// TransactionType indicates the kind of money movement.
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TransactionTypeTransfer, TransactionTypeDeposit, TransactionTypeWithdrawal:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, s)
	}
}

// DebitsSource reports whether the type takes money out of the source account.
func (t TransactionType) DebitsSource() bool {
	return t == TransactionTypeTransfer || t == TransactionTypeWithdrawal
}

// CreditsDestination reports whether the type puts money into the destination account.
func (t TransactionType) CreditsDestination() bool {
	return t == TransactionTypeTransfer || t == TransactionTypeDeposit
}

// TransactionStatus is the recorded outcome of a transaction.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// ParseTransactionStatus converts raw input into a TransactionStatus. Empty means success.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch st := TransactionStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return TransactionStatusSuccess, nil
	case TransactionStatusSuccess, TransactionStatusFailed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrValidation, s)
	}
}

// Transaction is an immutable record of a money movement.
type Transaction struct {
	TransactionID  string            `json:"transactionID"`
	FromAccountID  string            `json:"fromAccount"`
	ToAccountID    string            `json:"toAccount"`
	Amount         decimal.Decimal   `json:"amount"`
	Type           TransactionType   `json:"type"`
	Status         TransactionStatus `json:"status"`
	Description    string            `json:"description,omitempty"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	CreatedBy      string            `json:"createdBy"`
}

// NewAmount checks that d is a usable currency amount: positive, at most two
// decimal places and within the storage precision.
func NewAmount(d decimal.Decimal) (decimal.Decimal, error) {
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("%w: amount must have at most two decimal places", apperrors.ErrValidation)
	}
	if len(d.Truncate(0).String()) > MaxAmountDigits {
		return decimal.Zero, fmt.Errorf("%w: amount is too large", apperrors.ErrValidation)
	}
	return d, nil
}

// ParseAmount parses a decimal string and applies NewAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrValidation, s)
	}
	return NewAmount(d)
}

// TransactionCommand is a validated request to move money.
type TransactionCommand struct {
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Type           TransactionType
	Status         TransactionStatus
	Description    string
	IdempotencyKey string
}

// NewTransactionCommand builds a command from raw boundary values and rejects
// anything it cannot interpret. For deposits the source may be empty and for
// withdrawals the destination may be empty; the engine fills them in.
func NewTransactionCommand(from, to string, amount decimal.Decimal, txnType, status, description, idempotencyKey string) (TransactionCommand, error) {
	t, err := ParseTransactionType(txnType)
	if err != nil {
		return TransactionCommand{}, err
	}
	st, err := ParseTransactionStatus(status)
	if err != nil {
		return TransactionCommand{}, err
	}
	amt, err := NewAmount(amount)
	if err != nil {
		return TransactionCommand{}, err
	}

	cmd := TransactionCommand{
		FromAccountID:  strings.TrimSpace(from),
		ToAccountID:    strings.TrimSpace(to),
		Amount:         amt,
		Type:           t,
		Status:         st,
		Description:    strings.TrimSpace(description),
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
	if err := cmd.Validate(); err != nil {
		return TransactionCommand{}, err
	}
	return cmd, nil
}

// Validate checks the structural rules of a command.
func (c TransactionCommand) Validate() error {
	if c.Type.DebitsSource() && c.FromAccountID == "" {
		return fmt.Errorf("%w: fromAccount is required for %s", apperrors.ErrValidation, c.Type)
	}
	if c.Type.CreditsDestination() && c.ToAccountID == "" {
		return fmt.Errorf("%w: toAccount is required for %s", apperrors.ErrValidation, c.Type)
	}
	if c.FromAccountID != "" && c.FromAccountID == c.ToAccountID {
		return fmt.Errorf("%w: fromAccount and toAccount must differ", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, MaxDescriptionLength)
	}
	if len(c.IdempotencyKey) > 128 {
		return fmt.Errorf("%w: idempotency key is too long", apperrors.ErrValidation)
	}
	return nil
}

// Executes reports whether the command mutates balances. A caller-recorded
// failure is stored as-is without touching any account.
func (c TransactionCommand) Executes() bool {
	return c.Status != TransactionStatusFailed
}

// ParticipantIDs returns the ids of the accounts whose balance the command
// changes, in lock order.
func (c TransactionCommand) ParticipantIDs() []string {
	if !c.Executes() {
		return nil
	}
	ids := make([]string, 0, 2)
	if c.Type.DebitsSource() {
		ids = append(ids, c.FromAccountID)
	}
	if c.Type.CreditsDestination() && c.ToAccountID != c.FromAccountID {
		ids = append(ids, c.ToAccountID)
	}
	sort.Strings(ids)
	return ids
}

// BalanceChange is a computed balance update for one account.
type BalanceChange struct {
	AccountID string
	Before    decimal.Decimal
	After     decimal.Decimal
}

// PlanTransaction applies the business rules to the locked accounts and
// returns the balance changes to persist. Both sides of a balance change must
// be active; the untouched side of a deposit or withdrawal is not gated.
func PlanTransaction(cmd TransactionCommand, from, to Account) ([]BalanceChange, error) {
	if !cmd.Executes() {
		return nil, nil
	}

	if cmd.Type.DebitsSource() && !from.IsActive() {
		return nil, fmt.Errorf("%w: source account %s is %s", apperrors.ErrAccountNotActive, from.AccountNumber, from.Status)
	}
	if cmd.Type.CreditsDestination() && !to.IsActive() {
		return nil, fmt.Errorf("%w: destination account %s is %s", apperrors.ErrAccountNotActive, to.AccountNumber, to.Status)
	}

	changes := make([]BalanceChange, 0, 2)
	if cmd.Type.DebitsSource() {
		if from.Balance.LessThan(cmd.Amount) {
			return nil, fmt.Errorf("%w: account %s cannot cover %s", apperrors.ErrInsufficientBalance, from.AccountNumber, cmd.Amount.StringFixed(2))
		}
		changes = append(changes, BalanceChange{
			AccountID: from.AccountID,
			Before:    from.Balance,
			After:     from.Balance.Sub(cmd.Amount),
		})
	}
	if cmd.Type.CreditsDestination() {
		changes = append(changes, BalanceChange{
			AccountID: to.AccountID,
			Before:    to.Balance,
			After:     to.Balance.Add(cmd.Amount),
		})
	}
	return changes, nil
}
