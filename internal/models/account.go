package models

import (
	"github.com/shopspring/decimal"
)

// Account is a customer account row.
type Account struct {
	AccountID     string          `db:"id"`
	UserID        string          `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	AccountType   string          `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	Status        string          `db:"status"`
	AuditFields
}
