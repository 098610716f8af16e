package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/shop-service/internal/domain"
)

var errInvalidClaims = errors.New("required claim missing or invalid")

// Identity is the subject a token is issued for.
type Identity struct {
	UserID   string
	Username string
	Roles    []domain.Role
}

// IdentityFromUser builds the token subject for a stored user.
func IdentityFromUser(u *domain.User) Identity {
	return Identity{UserID: u.ID, Username: u.Username, Roles: u.Roles}
}

// Roles is always written as a list; a bare string is accepted on decode.
type Roles []domain.Role

// UnmarshalJSON implements json.Unmarshaler.
func (r *Roles) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	var raw []string
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		raw = []string{single}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("role: %w", err)
	}

	roles := make(Roles, 0, len(raw))
	for _, name := range raw {
		roles = append(roles, domain.Role(name))
	}
	*r = roles
	return nil
}

// Claims is the payload of access and refresh tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Roles  `json:"role"`
	Refresh  bool   `json:"refresh"`
	jwt.RegisteredClaims
}

// Kind reports which kind of token carried the claims.
func (c *Claims) Kind() domain.TokenKind {
	if c.Refresh {
		return domain.TokenKindRefresh
	}
	return domain.TokenKindAccess
}

// Identity returns the subject the claims were issued for.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, Roles: c.Role}
}

// Validate is invoked by the jwt parser once the signature has been verified.
func (c *Claims) Validate() error {
	if _, err := uuid.Parse(c.UserID); err != nil {
		return fmt.Errorf("%w: user_id", errInvalidClaims)
	}
	if c.Username == "" {
		return fmt.Errorf("%w: username", errInvalidClaims)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: jti", errInvalidClaims)
	}
	for _, role := range c.Role {
		if _, err := domain.ParseRole(string(role)); err != nil {
			return fmt.Errorf("%w: %v", errInvalidClaims, err)
		}
	}
	return nil
}
