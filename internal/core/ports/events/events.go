package events

import (
	"context"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// Event types published by the core.
const (
	TransactionCreated    = "transaction.created"
	AccountStatusChanged  = "account.status_changed"
	TransactionRoutingKey = "bank.transactions"
	AccountRoutingKey     = "bank.accounts"
)

// TransactionEvent is emitted after a transaction record has been committed.
type TransactionEvent struct {
	EventID     string             `json:"eventID"`
	Type        string             `json:"type"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Transaction domain.Transaction `json:"transaction"`
}

// AccountStatusEvent is emitted after a lifecycle transition has been committed.
type AccountStatusEvent struct {
	EventID    string               `json:"eventID"`
	Type       string               `json:"type"`
	OccurredAt time.Time            `json:"occurredAt"`
	AccountID  string               `json:"accountID"`
	From       domain.AccountStatus `json:"from"`
	To         domain.AccountStatus `json:"to"`
	ChangedBy  string               `json:"changedBy"`
}

// Publisher delivers committed domain events to downstream consumers.
// Delivery is best effort; a failure never undoes the committed change.
type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
	PublishAccountStatus(ctx context.Context, event AccountStatusEvent) error
	Close() error
}
