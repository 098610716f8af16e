package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Link purposes. A link signed for one purpose never decodes for another.
const (
	LinkPurposeVerifyEmail   = "verify-email"
	LinkPurposeResetPassword = "reset-password"
)

const linkSalt = "email.configuration"

// Link token failures, surfaced to callers as distinct kinds.
var (
	ErrLinkExpired  = errors.New("link expired")
	ErrBadSignature = errors.New("link signature invalid")
)

// LinkPayload is the data carried by an email link.
type LinkPayload struct {
	Email    string
	Purpose  string
	Expiry   time.Duration
	IssuedAt time.Time
}

// LinkSigner produces URL-safe timestamped tokens for verification and reset links.
// Links are signed with a key derived from the secret and a salt, so session tokens
// and links never verify as each other.
type LinkSigner struct {
	key []byte
	now func() time.Time
}

// NewLinkSigner derives a signing key from secret.
func NewLinkSigner(secret string) *LinkSigner {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(linkSalt))
	return &LinkSigner{key: mac.Sum(nil), now: time.Now}
}

// Create signs a link for email. expiry is embedded and enforced alongside the
// server-side max age at decode time.
func (s *LinkSigner) Create(email, purpose string, expiry time.Duration) (string, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Audience:  jwt.ClaimStrings{purpose},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiry.Truncate(time.Second))),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Decode verifies the signature and purpose, then the age against maxAge and the
// embedded expiry. A link whose age reaches its expiry is expired.
func (s *LinkSigner) Decode(token, purpose string, maxAge time.Duration) (LinkPayload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(purpose),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return LinkPayload{}, ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return LinkPayload{}, ErrLinkExpired
	default:
		return LinkPayload{}, ErrBadSignature
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return LinkPayload{}, ErrBadSignature
	}

	payload := LinkPayload{
		Email:    claims.Subject,
		Purpose:  purpose,
		Expiry:   claims.ExpiresAt.Sub(claims.IssuedAt.Time),
		IssuedAt: claims.IssuedAt.Time,
	}
	age := s.now().Sub(payload.IssuedAt)
	if age > maxAge || age >= payload.Expiry {
		return payload, ErrLinkExpired
	}
	return payload, nil
}
