package auth

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/DeliveryBox/internal/models"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type principalKey struct{}

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// ParseBearer validates an "Authorization: Bearer <jwt>" header value.
func ParseBearer(header, secret string) (models.Principal, error) {
	if header == "" {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, "missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, "invalid authorization header")
	}
	return parseJWT(strings.TrimSpace(parts[1]), secret)
}

func parseJWT(tokenStr, secret string) (models.Principal, error) {
	if secret == "" {
		return models.Principal{}, errors.New("jwt secret is empty")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, err.Error())
	}
	if !tok.Valid {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, "invalid token")
	}

	c, _ := tok.Claims.(*claims)
	if c == nil || c.Name == "" || c.Role == "" {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, "invalid claims")
	}
	role := strings.ToLower(c.Role)
	if role != models.RoleCustomer && role != models.RoleDriver {
		return models.Principal{}, errors.Wrapf(models.ErrUnauthenticated, "unknown role %q", c.Role)
	}
	return models.Principal{Name: c.Name, Role: role}, nil
}

// IssueToken signs an HS256 token for name and role. ttl <= 0 means no expiry.
func IssueToken(secret, name, role string, ttl time.Duration) (string, error) {
	c := claims{Name: name, Role: role}
	if ttl > 0 {
		now := time.Now()
		c.IssuedAt = jwt.NewNumericDate(now)
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return s, nil
}

func RequirePrincipal(ctx context.Context) (models.Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return models.Principal{}, errors.Wrap(models.ErrUnauthenticated, "missing principal")
	}
	return p, nil
}

// RequireRole ensures the caller has the given role.
func RequireRole(ctx context.Context, role string) (models.Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return models.Principal{}, err
	}
	if p.Role != role {
		return models.Principal{}, errors.Wrapf(models.ErrForbidden, "only %s can perform this action", role)
	}
	return p, nil
}

func RequireCustomer(ctx context.Context) (models.Principal, error) {
	return RequireRole(ctx, models.RoleCustomer)
}

func RequireDriver(ctx context.Context) (models.Principal, error) {
	return RequireRole(ctx, models.RoleDriver)
}
