package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/waabox/catalogdeck/internal/session"
)

func TestPeekClaims_ReadsPayloadWithoutKey(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   "u-1",
		"username": "admin",
		"role":     "ADMIN",
		"exp":      exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	c, err := session.PeekClaims(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", c.UserID)
	require.Equal(t, "admin", c.Username)
	require.Equal(t, "ADMIN", c.Role)
	require.True(t, c.ExpiresAt.Equal(exp))
}

func TestPeekClaims_RejectsGarbage(t *testing.T) {
	_, err := session.PeekClaims("not-a-jwt")
	require.Error(t, err)
}
