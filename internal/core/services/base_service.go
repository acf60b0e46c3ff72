package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Publisher events.Publisher
	Clock     func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current UTC time, or the injected clock in tests.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// publishTransaction emits a committed transaction. Failures are logged only.
func (s *BaseService) publishTransaction(ctx context.Context, event events.TransactionEvent) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishTransaction(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction event",
			slog.String("transaction_id", event.Transaction.TransactionID))
	}
}

// publishAccountStatus emits a committed lifecycle change. Failures are logged only.
func (s *BaseService) publishAccountStatus(ctx context.Context, event events.AccountStatusEvent) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishAccountStatus(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish account status event",
			slog.String("account_id", event.AccountID))
	}
}
