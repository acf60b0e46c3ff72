package middleware

import (
	"context"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Keys for the authenticated principal in the request context.
const (
	userIDKey = contextKey("userID")
	roleKey   = contextKey("role")
)

// WithPrincipal stores the authenticated principal in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = context.WithValue(ctx, userIDKey, p.UserID)
	return context.WithValue(ctx, roleKey, p.Role)
}

// GetUserIDFromContext retrieves the authenticated user ID from the request.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetPrincipalFromContext retrieves the authenticated principal from the request.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return domain.Principal{}, false
	}
	role, _ := c.Request.Context().Value(roleKey).(domain.UserRole)
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Principal{UserID: userID, Role: role}, true
}
