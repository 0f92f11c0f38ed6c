package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	token, err := GenerateToken("64f1c0ffee0000000000abcd", "ada@example.com", "test-secret", "jotter", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, "64f1c0ffee0000000000abcd", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "jotter", claims.Issuer)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user", "a@b.c", "right-secret", "jotter", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := GenerateToken("user", "a@b.c", "secret", "jotter", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not.a.token", "secret")
	assert.Error(t, err)
}
