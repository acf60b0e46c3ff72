package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountNumberLength is the fixed number of digits in an account number.
const AccountNumberLength = 10

// AccountType distinguishes the product an account belongs to.
type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
)

// ParseAccountType converts raw input into an AccountType, rejecting unknown values.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case AccountTypeCurrent, AccountTypeSavings:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, s)
	}
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
	AccountStatusClosed AccountStatus = "closed"
)

// AccountAction is an admin-triggered lifecycle action.
type AccountAction string

const (
	AccountActionFreeze   AccountAction = "freeze"
	AccountActionActivate AccountAction = "activate"
	AccountActionClose    AccountAction = "close"
)

// ParseAccountAction converts raw input into an AccountAction.
func ParseAccountAction(s string) (AccountAction, error) {
	switch a := AccountAction(strings.ToLower(strings.TrimSpace(s))); a {
	case AccountActionFreeze, AccountActionActivate, AccountActionClose:
		return a, nil
	default:
		return "", fmt.Errorf("%w: invalid action %q", apperrors.ErrValidation, s)
	}
}

// PastTense renders the action for user-facing messages ("Account frozen successfully").
func (a AccountAction) PastTense() string {
	switch a {
	case AccountActionFreeze:
		return "frozen"
	case AccountActionActivate:
		return "activated"
	case AccountActionClose:
		return "closed"
	default:
		return string(a)
	}
}

// Transition returns the state reached by applying action to s.
// Closed is terminal; moves into the current state are rejected.
func (s AccountStatus) Transition(action AccountAction) (AccountStatus, error) {
	var next AccountStatus
	switch {
	case s == AccountStatusActive && action == AccountActionFreeze:
		next = AccountStatusFrozen
	case s == AccountStatusFrozen && action == AccountActionActivate:
		next = AccountStatusActive
	case (s == AccountStatusActive || s == AccountStatusFrozen) && action == AccountActionClose:
		next = AccountStatusClosed
	default:
		return s, fmt.Errorf("%w: cannot %s an account that is %s", apperrors.ErrInvalidTransition, action, s)
	}
	return next, nil
}

// Account represents a customer bank account within the core domain.
type Account struct {
	AccountID     string          `json:"accountID"`
	UserID        string          `json:"userID"`
	AccountNumber string          `json:"accountNumber"` // 10 digits, immutable
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	AuditFields
}

// IsActive reports whether the account may take part in a transaction.
func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// ValidateAccountNumber checks the fixed-length numeric format.
func ValidateAccountNumber(s string) error {
	if len(s) != AccountNumberLength {
		return fmt.Errorf("%w: account number must have %d digits", apperrors.ErrValidation, AccountNumberLength)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: account number must be numeric", apperrors.ErrValidation)
		}
	}
	return nil
}
