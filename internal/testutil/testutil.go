package testutil

import (
	"net/http"
	"testing"

	"github.com/BearBump/DeliveryBox/internal/auth"
	"github.com/stretchr/testify/require"
)

// GenerateJWTHS256 returns a signed token with name and role claims.
func GenerateJWTHS256(t *testing.T, secret, name, role string) string {
	t.Helper()
	s, err := auth.IssueToken(secret, name, role, 0)
	require.NoError(t, err)
	return s
}

// WithBearer sets the Authorization header on r.
func WithBearer(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
