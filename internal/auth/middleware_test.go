package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

func domainErrorHandler(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": domainErr.Code}})
}

func newGateApp(t *testing.T) (*fiber.App, *verifierFixture) {
	t.Helper()
	f := newVerifierFixture(t)
	mw := NewAuthMiddleware(f.verifier)

	app := fiber.New(fiber.Config{ErrorHandler: domainErrorHandler})
	echo := func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(fiber.Map{"jti": claims.ID})
	}
	app.Get("/access", mw.RequireAccess(), echo)
	app.Get("/refresh", mw.RequireRefresh(), echo)
	return app, f
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestGateResponses(t *testing.T) {
	app, f := newGateApp(t)

	cases := []struct {
		name       string
		path       string
		header     string
		cookie     string
		wantStatus int
		wantCode   string
	}{
		{name: "no credentials", path: "/access", wantStatus: http.StatusUnauthorized, wantCode: "NO_CREDENTIALS"},
		{name: "wrong scheme", path: "/access", header: "Basic " + f.access.Value, wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "garbage token", path: "/access", header: "Bearer nope", wantStatus: http.StatusForbidden, wantCode: "INVALID_TOKEN"},
		{name: "access ok", path: "/access", header: "Bearer " + f.access.Value, wantStatus: http.StatusOK},
		{name: "refresh at access gate", path: "/access", header: "Bearer " + f.refresh.Value, wantStatus: http.StatusForbidden, wantCode: "WRONG_TOKEN_KIND"},
		{name: "refresh header", path: "/refresh", header: "Bearer " + f.refresh.Value, wantStatus: http.StatusOK},
		{name: "refresh cookie", path: "/refresh", cookie: f.refresh.Value, wantStatus: http.StatusOK},
		{name: "access cookie at refresh gate", path: "/refresh", cookie: f.access.Value, wantStatus: http.StatusForbidden, wantCode: "WRONG_TOKEN_KIND"},
		{name: "refresh gate without credentials", path: "/refresh", wantStatus: http.StatusUnauthorized, wantCode: "NO_CREDENTIALS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: tc.cookie, Expires: time.Now().Add(time.Hour)})
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, resp))
			}
		})
	}
}
