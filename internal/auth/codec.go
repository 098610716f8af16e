package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Codec failures. Decode returns exactly one of these.
var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
)

var errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// Codec signs and verifies HS256 tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec for the shared secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Encode signs the claims.
func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature first, then the expiry and required claims.
func (c *Codec) Decode(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errUnsupportedAlgorithm
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, errUnsupportedAlgorithm), errors.Is(err, errInvalidClaims):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
