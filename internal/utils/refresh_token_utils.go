package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// refreshTokenBytes is the entropy of an issued refresh token.
const refreshTokenBytes = 32

// NewRefreshToken returns an opaque token for the client and the keyed hash to store.
func NewRefreshToken(secret string) (token string, hash string, err error) {
	token, err = GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return token, HashRefreshToken(token, secret), nil
}

// HashRefreshToken generates an HMAC-SHA256 of a refresh token keyed by secret.
func HashRefreshToken(token string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// CompareRefreshTokenHash compares a plain refresh token with its stored hash.
// The `token` parameter is the raw token string, not a hash.
func CompareRefreshTokenHash(token string, storedHash string, secret string) bool {
	return hmac.Equal([]byte(HashRefreshToken(token, secret)), []byte(storedHash))
}
