package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("secret", "idp", 42, "admin", time.Hour)
	require.NoError(t, err)

	v, err := NewVerifier("secret", "idp")
	require.NoError(t, err)

	claims, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_Rejects(t *testing.T) {
	v, err := NewVerifier("secret", "idp")
	require.NoError(t, err)

	wrongSecret, err := Sign("other", "idp", 1, "user", time.Hour)
	require.NoError(t, err)
	_, err = v.Parse(wrongSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := Sign("secret", "idp", 1, "user", -time.Minute)
	require.NoError(t, err)
	_, err = v.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := Sign("secret", "someone-else", 1, "user", time.Hour)
	require.NoError(t, err)
	_, err = v.Parse(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	_, err := NewVerifier("", "")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
