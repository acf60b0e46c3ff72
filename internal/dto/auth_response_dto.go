package dto

import "time"

// AuthTokens is an access token plus the refresh token that renews it.
type AuthTokens struct {
	AccessToken      string    `json:"accessToken"`
	TokenType        string    `json:"tokenType"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// LoginResponse carries the issued tokens and the signed-in user.
type LoginResponse struct {
	AuthTokens
	User UserResponse `json:"user"`
}
