package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token payload shown in the UI.
type Claims struct {
	UserID    string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// PeekClaims decodes the token payload WITHOUT verifying its signature.
// The result is for display only; the server remains the authority on validity.
func PeekClaims(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("decoding token payload: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}

	c := Claims{
		UserID:   stringClaim(mc, "userId"),
		Username: stringClaim(mc, "username"),
		Role:     stringClaim(mc, "role"),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	if v, ok := mc[key].(string); ok {
		return v
	}
	return ""
}
