package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/domain"
)

// RefreshCookieName carries the refresh token set at login.
const RefreshCookieName = "refresh_token"

const claimsKey = "auth_claims"

// AuthMiddleware turns verified bearer tokens into request claims.
type AuthMiddleware struct {
	verifier *Verifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAccess admits requests bearing a valid access token.
func (m *AuthMiddleware) RequireAccess() fiber.Handler {
	return m.gate(domain.TokenKindAccess)
}

// RequireRefresh admits requests bearing a valid refresh token, taken from the
// Authorization header or, failing that, the refresh cookie.
func (m *AuthMiddleware) RequireRefresh() fiber.Handler {
	return m.gate(domain.TokenKindRefresh)
}

func (m *AuthMiddleware) gate(kind domain.TokenKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return ToDomainError(err)
		}
		if raw == "" && kind == domain.TokenKindRefresh {
			raw = c.Cookies(RefreshCookieName)
		}

		claims, err := m.verifier.Verify(c.UserContext(), raw, kind)
		if err != nil {
			return ToDomainError(err)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// ClaimsFromContext returns the claims stored by a gate.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
