package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tokenStr, expireAt, err := GenerateToken("test-secret", "user-1", "employer", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expireAt, 5*time.Second)

	claims, err := ParseToken("test-secret", tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "employer", claims.Role)
	assert.Equal(t, "slowork", claims.Issuer)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenStr, _, err := GenerateToken("right-secret", "user-1", "freelancer", 60)
	require.NoError(t, err)

	_, err = ParseToken("wrong-secret", tokenStr)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tokenStr, _, err := GenerateToken("test-secret", "user-1", "freelancer", -1)
	require.NoError(t, err)

	_, err = ParseToken("test-secret", tokenStr)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("test-secret", "not.a.jwt")
	assert.Error(t, err)
}
