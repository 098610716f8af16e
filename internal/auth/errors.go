package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

// Gate and role-check rejections.
var (
	ErrNoCredentials  = errors.New("no credentials provided")
	ErrInvalidToken   = errors.New("token is invalid or has been revoked")
	ErrWrongTokenKind = errors.New("wrong token kind")
	ErrNotVerified    = errors.New("account not verified")
	ErrRoleNotAllowed = errors.New("role not allowed")
)

// ToDomainError maps auth failures to client-facing errors. The InvalidToken response
// never says which check failed.
func ToDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoCredentials):
		return apperrors.Wrap(err, "NO_CREDENTIALS", "no credentials provided", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidToken):
		return apperrors.Wrap(err, "INVALID_TOKEN", "this token is invalid or has been revoked", http.StatusForbidden)
	case errors.Is(err, ErrWrongTokenKind):
		return apperrors.Wrap(err, "WRONG_TOKEN_KIND", "provide a valid token of the expected kind", http.StatusForbidden)
	case errors.Is(err, ErrNotVerified):
		return apperrors.Wrap(err, "NOT_VERIFIED", "account not verified", http.StatusForbidden)
	case errors.Is(err, ErrRoleNotAllowed):
		return apperrors.Wrap(err, "ROLE_NOT_ALLOWED", "you are not permitted to perform this action", http.StatusForbidden)
	case errors.Is(err, ErrLinkExpired):
		return apperrors.Wrap(err, "LINK_EXPIRED", "link has expired", http.StatusForbidden)
	case errors.Is(err, ErrBadSignature):
		return apperrors.Wrap(err, "BAD_SIGNATURE", "invalid link", http.StatusUnauthorized)
	default:
		return apperrors.MapError(err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no_credentials"
	case errors.Is(err, ErrWrongTokenKind):
		return "wrong_token_kind"
	case errors.Is(err, ErrNotVerified):
		return "not_verified"
	case errors.Is(err, ErrRoleNotAllowed):
		return "role_not_allowed"
	default:
		return "invalid_token"
	}
}
