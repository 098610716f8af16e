package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
)

// Issuer mints access and refresh tokens. It holds no state between calls.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	metrics    *observability.Metrics
}

// NewIssuer builds an issuer with the given lifetimes.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration, metrics *observability.Metrics) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 48 * time.Hour
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL, metrics: metrics}
}

// IssueAccess mints a short-lived access token.
func (i *Issuer) IssueAccess(id Identity) (domain.Token, error) {
	return i.issue(id, domain.TokenKindAccess, i.accessTTL)
}

// IssueRefresh mints a long-lived refresh token.
func (i *Issuer) IssueRefresh(id Identity) (domain.Token, error) {
	return i.issue(id, domain.TokenKindRefresh, i.refreshTTL)
}

func (i *Issuer) issue(id Identity, kind domain.TokenKind, ttl time.Duration) (domain.Token, error) {
	// exp travels as whole seconds; truncating keeps IssuedToken and the claims in agreement.
	issuedAt := i.codec.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	jti := uuid.NewString()

	claims := &Claims{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     Roles(id.Roles),
		Refresh:  kind == domain.TokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := i.codec.Encode(claims)
	if err != nil {
		return domain.Token{}, fmt.Errorf("issue %s token: %w", kind, err)
	}
	i.metrics.RecordTokenIssued(string(kind))

	return domain.Token{
		ID:        jti,
		Kind:      kind,
		Value:     signed,
		SubjectID: id.UserID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
