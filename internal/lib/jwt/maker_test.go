package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/webshop/internal/models"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name      string
		principal models.Principal
	}{
		{name: "admin", principal: models.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}},
		{name: "editor", principal: models.Principal{UserID: 7, Username: "editor", Role: models.RoleEditor}},
		{name: "regular user", principal: models.Principal{UserID: 42, Username: "user@domain.com", Role: models.RoleRegularUser}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.principal)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			got, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.principal, *got)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)
	p := models.Principal{UserID: 1, Username: "testuser", Role: models.RoleRegularUser}

	validToken, err := maker.GenerateToken(p)
	require.NoError(t, err)

	expired, err := NewJWTMaker(secretKey, -time.Hour).GenerateToken(p)
	require.NoError(t, err)

	foreign, err := NewJWTMaker("wrong_secret_key", 15*time.Minute).GenerateToken(p)
	require.NoError(t, err)

	badRole, err := maker.GenerateToken(models.Principal{UserID: 1, Username: "x", Role: models.Role(9)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: foreign},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "unknown role", token: badRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}
