package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "admin", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(7, "client", "right-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	require.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", "secret")
	require.Error(t, err)
}
