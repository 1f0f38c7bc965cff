package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ValidatePassword("long-enough-password"))

	fields := ValidatePassword("short")
	require.NotNil(t, fields)
	assert.Contains(t, fields, "password")
}

func TestAccessTokenRoundtrip(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("secret", "user-1", "client-1",
		[]string{"users.view.me"}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "client-1", claims.ClientID)
	assert.Equal(t, []string{"users.view.me"}, claims.Scopes)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("secret", "user-1", "", nil, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("secret", "user-1", "", nil, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", tok)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("secret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}
