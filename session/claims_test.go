package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("local-test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseTokenClaims(t *testing.T) {
	exp := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "00000000-0000-0000-0000-000000000001",
		"email": "vet@example.com",
		"phone": "+255712345678",
		"exp":   exp.Unix(),
		"user_metadata": map[string]any{
			"user_type": "vet",
		},
	})

	claims := parseTokenClaims(token)
	require.NotNil(t, claims)
	require.Equal(t, "00000000-0000-0000-0000-000000000001", claims.Subject)
	require.Equal(t, "vet@example.com", claims.Email)
	require.Equal(t, "+255712345678", claims.Phone)
	require.Equal(t, exp.Unix(), claims.ExpiresAt)
	require.Equal(t, "vet", claims.UserType)
}

func TestParseTokenClaimsPartial(t *testing.T) {
	claims := parseTokenClaims(signedToken(t, jwt.MapClaims{"sub": "u1"}))
	require.NotNil(t, claims)
	require.Equal(t, "u1", claims.Subject)
	require.Zero(t, claims.ExpiresAt)
	require.Empty(t, claims.UserType)
}

func TestParseTokenClaimsNotAJWT(t *testing.T) {
	require.Nil(t, parseTokenClaims("tok1"))
	require.Nil(t, parseTokenClaims(""))
}
