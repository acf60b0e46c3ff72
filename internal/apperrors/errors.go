package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the principal is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a concurrent modification was detected and the operation may be retried.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrBusy indicates the required account locks could not be acquired in time.
var ErrBusy = errors.New("account is busy, retry later")

// ErrInternal is the generic error surfaced for storage and unexpected faults.
var ErrInternal = errors.New("internal error")

// Account and transaction specific errors.
var (
	ErrAccountNotFound     = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrAccountNotActive    = errors.New("account is not active")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransition   = errors.New("invalid account status transition")
	ErrTransactionNotFound = fmt.Errorf("%w: transaction not found", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAccountLocked       = errors.New("user account temporarily locked")
)

// User and session specific errors.
var (
	ErrUserInactive        = fmt.Errorf("%w: user account has been deactivated", ErrUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	ErrRefreshTokenMissing = fmt.Errorf("%w: refresh token not found", ErrNotFound)
)

// AppError carries an HTTP-ish status code alongside a wrapped cause. Used for
// storage faults so callers can log the cause without leaking it to clients.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= http.StatusInternalServerError
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStorageError wraps a persistence failure.
func NewStorageError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}
