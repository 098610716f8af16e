package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shop-service/internal/domain"
)

type userMap map[string]*domain.User

func (m userMap) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func roleSet(roles ...domain.Role) map[domain.Role]struct{} {
	out := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		out[r] = struct{}{}
	}
	return out
}

func TestCheckRoles(t *testing.T) {
	cases := []struct {
		name    string
		user    domain.User
		allowed map[domain.Role]struct{}
		want    error
	}{
		{
			name:    "verified admin",
			user:    domain.User{Verified: true, Roles: []domain.Role{domain.RoleAdmin}},
			allowed: roleSet(domain.RoleAdmin),
		},
		{
			name:    "any of several roles",
			user:    domain.User{Verified: true, Roles: []domain.Role{domain.RoleUser, domain.RoleVendor}},
			allowed: roleSet(domain.RoleAdmin, domain.RoleVendor),
		},
		{
			name:    "unverified is rejected before roles",
			user:    domain.User{Verified: false, Roles: []domain.Role{domain.RoleAdmin}},
			allowed: roleSet(domain.RoleAdmin),
			want:    ErrNotVerified,
		},
		{
			name:    "no matching role",
			user:    domain.User{Verified: true, Roles: []domain.Role{domain.RoleUser}},
			allowed: roleSet(domain.RoleAdmin, domain.RoleVendor),
			want:    ErrRoleNotAllowed,
		},
		{
			name:    "no roles",
			user:    domain.User{Verified: true},
			allowed: roleSet(domain.RoleUser),
			want:    ErrRoleNotAllowed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRoles(&tc.user, tc.allowed)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRoleCheckerRequire(t *testing.T) {
	admin := &domain.User{ID: uuid.NewString(), Verified: true, Roles: []domain.Role{domain.RoleAdmin}}
	shopper := &domain.User{ID: uuid.NewString(), Verified: true, Roles: []domain.Role{domain.RoleUser}}
	pending := &domain.User{ID: uuid.NewString(), Verified: false, Roles: []domain.Role{domain.RoleAdmin}}
	users := userMap{admin.ID: admin, shopper.ID: shopper, pending.ID: pending}

	checker := NewRoleChecker(users)
	app := fiber.New(fiber.Config{ErrorHandler: domainErrorHandler})
	app.Get("/admin/:uid", func(c *fiber.Ctx) error {
		c.Locals(claimsKey, &Claims{UserID: c.Params("uid")})
		return c.Next()
	}, checker.Require(domain.RoleAdmin), func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(user.ID)
	})
	app.Get("/anonymous", checker.CurrentUser(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	cases := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "admin", path: "/admin/" + admin.ID, wantStatus: http.StatusOK},
		{name: "regular user", path: "/admin/" + shopper.ID, wantStatus: http.StatusForbidden, wantCode: "ROLE_NOT_ALLOWED"},
		{name: "unverified", path: "/admin/" + pending.ID, wantStatus: http.StatusForbidden, wantCode: "NOT_VERIFIED"},
		{name: "deleted account", path: "/admin/" + uuid.NewString(), wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "no gate ran", path: "/anonymous", wantStatus: http.StatusUnauthorized, wantCode: "NO_CREDENTIALS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, resp))
			}
		})
	}
}
