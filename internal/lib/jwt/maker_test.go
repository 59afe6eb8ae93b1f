package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name   string
		userID string
		email  string
	}{
		{
			name:   "regular user",
			userID: "0f8fad5b-d9cb-469f-a165-70867728950e",
			email:  "user@example.com",
		},
		{
			name:   "admin user",
			userID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			email:  "admin@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.userID, claims.Subject)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	validToken, err := maker.GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: createExpiredToken(t, secretKey)},
		{name: "wrong secret key", token: createTokenWithWrongSecret(t)},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "foreign signing method", token: createHS512Token(t, secretKey)},
		{name: "no user id", token: createTokenWithoutUserID(t, secretKey)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func createExpiredToken(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewJWTMaker("wrong_secret_key", 15*time.Minute)
	token, err := wrongMaker.GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)
	return token
}

func createHS512Token(t *testing.T, secretKey string) string {
	claims := CustomClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)
	return token
}

func createTokenWithoutUserID(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, time.Hour)
	token, err := maker.GenerateToken("", "user@example.com")
	require.NoError(t, err)
	return token
}
