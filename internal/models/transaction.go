package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded money movement between two accounts.
type Transaction struct {
	TransactionID  string          `db:"id"`
	FromAccountID  string          `db:"from_account_id"`
	ToAccountID    string          `db:"to_account_id"`
	Amount         decimal.Decimal `db:"amount"`
	Type           string          `db:"type"`
	Status         string          `db:"status"`
	Description    string          `db:"description"`
	IdempotencyKey sql.NullString  `db:"idempotency_key"` // Nullable
	Timestamp      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
}
