package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// errorKind is the HTTP rendering of one application error.
type errorKind struct {
	target  error
	status  int
	code    string
	message string
	retry   bool
}

// Order matters: specific errors come before the sentinels they wrap.
var errorKinds = []errorKind{
	{apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", false},
	{apperrors.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", false},
	{apperrors.ErrTransactionNotFound, http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found", false},
	{apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found", false},
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found", false},
	{apperrors.ErrAccountNotActive, http.StatusBadRequest, "ACCOUNT_NOT_ACTIVE", "Account is not active", false},
	{apperrors.ErrInsufficientBalance, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient balance", false},
	{apperrors.ErrBusy, http.StatusConflict, "BUSY", "Account is busy, please retry", true},
	{apperrors.ErrConflict, http.StatusConflict, "CONFLICT", "Concurrent update detected, please retry", true},
	{apperrors.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", "Invalid account status transition", false},
	{apperrors.ErrDuplicate, http.StatusConflict, "DUPLICATE", "Resource already exists", false},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", false},
	{apperrors.ErrAccountLocked, http.StatusLocked, "ACCOUNT_LOCKED", "Too many failed login attempts, try again later", false},
	{apperrors.ErrUserInactive, http.StatusUnauthorized, "USER_INACTIVE", "Account has been deactivated", false},
	{apperrors.ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token", false},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", false},
}

// respondError renders err as an error envelope. Unknown and storage errors
// become a generic 500 and their cause is only logged.
func respondError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if !errors.Is(err, apperrors.ErrInternal) {
		for _, k := range errorKinds {
			if !errors.Is(err, k.target) {
				continue
			}
			logger.Warn(logMsg, slog.String("code", k.code), slog.String("error", err.Error()))
			if k.retry {
				c.Header("Retry-After", "1")
			}
			c.JSON(k.status, dto.Failure(k.code, k.message, err.Error()))
			return
		}
	}

	logger.Error(logMsg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, dto.Failure("INTERNAL_ERROR", "Internal server error"))
}

// respondBindError renders a request binding failure as a 400 with one entry per invalid field.
func respondBindError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.Failure("VALIDATION_ERROR", "Invalid request format", err.Error()))
		return
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	c.JSON(http.StatusBadRequest, dto.Failure("VALIDATION_ERROR", "Invalid request", details...))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "money":
		return fmt.Sprintf("%s must be a positive amount with at most two decimal places", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}

// principalOrAbort fetches the authenticated caller, answering 401 when absent.
func principalOrAbort(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, dto.Failure("UNAUTHORIZED", "Unauthorized"))
		return p, false
	}
	return p, true
}

// pathUUID reads a UUID path parameter, answering 400 when malformed.
func pathUUID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.Failure("VALIDATION_ERROR", "Invalid request", fmt.Sprintf("%s must be a valid UUID", name)))
		return "", false
	}
	return id, true
}
