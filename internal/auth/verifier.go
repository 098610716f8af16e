package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
)

// kindRules holds the token-kind constraint applied after decode and revocation checks.
var kindRules = map[domain.TokenKind]func(*Claims) error{
	domain.TokenKindAccess: func(c *Claims) error {
		if c.Refresh {
			return fmt.Errorf("%w: refresh token presented where access token required", ErrWrongTokenKind)
		}
		return nil
	},
	domain.TokenKindRefresh: func(c *Claims) error {
		if !c.Refresh {
			return fmt.Errorf("%w: access token presented where refresh token required", ErrWrongTokenKind)
		}
		return nil
	},
}

// Verifier decides whether a presented token authorizes a request.
type Verifier struct {
	codec   *Codec
	store   RevocationStore
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewVerifier builds a verifier.
func NewVerifier(codec *Codec, store RevocationStore, logger *zap.Logger, metrics *observability.Metrics) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{codec: codec, store: store, logger: logger, metrics: metrics}
}

// Verify decodes raw, consults the blocklist, and enforces the token kind, in that order.
// Blocklist failures reject the token.
func (v *Verifier) Verify(ctx context.Context, raw string, kind domain.TokenKind) (*Claims, error) {
	claims, err := v.Inspect(ctx, raw, kind)
	if err != nil {
		v.metrics.RecordAuthRejection(rejectionReason(err))
		return nil, err
	}
	return claims, nil
}

// Inspect runs the same checks as Verify without counting rejections. It serves
// lookups that are not gating a request, such as the optional refresh cookie on logout.
func (v *Verifier) Inspect(ctx context.Context, raw string, kind domain.TokenKind) (*Claims, error) {
	rule, ok := kindRules[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
	return v.verify(ctx, raw, rule)
}

func (v *Verifier) verify(ctx context.Context, raw string, rule func(*Claims) error) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoCredentials
	}

	claims, err := v.codec.Decode(raw)
	if err != nil {
		v.logger.Debug("token rejected", zap.String("reason", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	revoked, err := v.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		v.logger.Error("revocation lookup failed; rejecting token",
			zap.String("jti", claims.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: revocation status unavailable", ErrInvalidToken)
	}
	if revoked {
		v.logger.Debug("token rejected", zap.String("reason", "revoked"), zap.String("jti", claims.ID))
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}

	if err := rule(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Revoke blocklists the token identified by jti.
func (v *Verifier) Revoke(ctx context.Context, jti string) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if err := v.store.Revoke(ctx, jti); err != nil {
		return err
	}
	v.metrics.RecordRevocation()
	return nil
}
