package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
)

// RegisterUserRequest defines the data needed to register a user.
type RegisterUserRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	AccountType string `json:"accountType,omitempty" binding:"omitempty,oneof=current savings"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateUserStatusRequest is the body of PUT /admin/users/:id/status.
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended frozen"`
}

// ListUsersParams defines query parameters for the admin user listing.
type ListUsersParams struct {
	Page   int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive suspended frozen"`
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// Normalize fills in defaults and clamps the page and limit.
func (p ListUsersParams) Normalize() ListUsersParams {
	paging := ListTransactionsParams{Page: p.Page, Limit: p.Limit}.Normalize()
	p.Page, p.Limit = paging.Page, paging.Limit
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Offset returns the number of records to skip for the page.
func (p ListUsersParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Filter converts the query into a domain filter.
func (p ListUsersParams) Filter() domain.UserFilter {
	return domain.UserFilter{
		Status: domain.UserStatus(p.Status),
		Role:   domain.UserRole(p.Role),
		Search: p.Search,
	}
}

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID      string            `json:"userID"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Role        domain.UserRole   `json:"role"`
	Status      domain.UserStatus `json:"status"`
	LastLoginAt *time.Time        `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// ToUserResponse converts a domain.User to a UserResponse.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ListUsersResponse is a page of users plus the total match count.
type ListUsersResponse struct {
	Data  []UserResponse `json:"data"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Count int            `json:"count"`
}

// ToListUsersResponse converts a page of domain users.
func ToListUsersResponse(users []domain.User, params ListUsersParams, count int) *ListUsersResponse {
	data := make([]UserResponse, len(users))
	for i := range users {
		data[i] = ToUserResponse(&users[i])
	}
	return &ListUsersResponse{Data: data, Page: params.Page, Limit: params.Limit, Count: count}
}

// RegisterResponse is returned after registration with the account opened for
// the user and a first session.
type RegisterResponse struct {
	User    UserResponse    `json:"user"`
	Account AccountResponse `json:"account"`
	*AuthTokens
}
