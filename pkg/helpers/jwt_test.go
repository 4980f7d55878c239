package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewJWTManager("testsecret", time.Hour)

	token, exp, err := m.GenerateToken("user-1", "student")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("testsecret", time.Hour)
	other := NewJWTManager("othersecret", time.Hour)

	token, _, err := m.GenerateToken("user-1", "student")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewJWTManager("testsecret", -time.Minute)

	token, _, err := m.GenerateToken("user-1", "student")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	m := NewJWTManager("testsecret", time.Hour)
	_, err := m.ParseToken("not.a.token")
	assert.Error(t, err)
}
