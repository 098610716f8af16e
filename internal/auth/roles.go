package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
)

const userKey = "auth_user"

// UserLookup resolves the account behind verified claims.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// CheckRoles admits verified users holding at least one allowed role.
func CheckRoles(user *domain.User, allowed map[domain.Role]struct{}) error {
	if !user.Verified {
		return ErrNotVerified
	}
	for _, role := range user.Roles {
		if _, ok := allowed[role]; ok {
			return nil
		}
	}
	return ErrRoleNotAllowed
}

// RoleChecker builds handlers that resolve the caller and enforce roles. It must run
// after an access gate.
type RoleChecker struct {
	users UserLookup
}

// NewRoleChecker constructs a RoleChecker.
func NewRoleChecker(users UserLookup) *RoleChecker {
	return &RoleChecker{users: users}
}

// Require ensures the caller is verified and holds one of the allowed roles.
func (rc *RoleChecker) Require(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, err := rc.resolve(c)
		if err != nil {
			return ToDomainError(err)
		}
		if err := CheckRoles(user, allowedSet); err != nil {
			return ToDomainError(err)
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser loads the caller without any role requirement.
func (rc *RoleChecker) CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := rc.resolve(c)
		if err != nil {
			return ToDomainError(err)
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

func (rc *RoleChecker) resolve(c *fiber.Ctx) (*domain.User, error) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return nil, ErrNoCredentials
	}
	user, err := rc.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// UserFromContext returns the account resolved by a RoleChecker handler.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
