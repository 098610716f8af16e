package auth

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRoundTrip(t *testing.T) {
	signer := NewLinkSigner(testSecret)
	signer.now = fixedClock(testNow)

	token, err := signer.Create("alice@example.com", LinkPurposeVerifyEmail, time.Hour)
	require.NoError(t, err)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	signer.now = fixedClock(testNow.Add(10 * time.Minute))
	payload, err := signer.Decode(token, LinkPurposeVerifyEmail, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", payload.Email)
	assert.Equal(t, LinkPurposeVerifyEmail, payload.Purpose)
	assert.Equal(t, time.Hour, payload.Expiry)
	assert.True(t, payload.IssuedAt.Equal(testNow))
}

func TestLinkDecodeFailures(t *testing.T) {
	signer := NewLinkSigner(testSecret)
	signer.now = fixedClock(testNow)

	token, err := signer.Create("alice@example.com", LinkPurposeResetPassword, time.Hour)
	require.NoError(t, err)

	foreign := NewLinkSigner("another-secret")
	foreign.now = fixedClock(testNow)
	foreignToken, err := foreign.Create("alice@example.com", LinkPurposeResetPassword, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := `{"sub":"mallory@example.com","aud":"reset-password","iat":` +
		strconv.FormatInt(testNow.Unix(), 10) + `,"exp":` + strconv.FormatInt(testNow.Add(time.Hour).Unix(), 10) + `}`
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(forged)) + "." + parts[2]

	stale, err := signer.Create("alice@example.com", LinkPurposeResetPassword, 0)
	require.NoError(t, err)

	session := signWith(t, jwt.SigningMethodHS256, validClaims(testNow), testSecret)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		Audience:  jwt.ClaimStrings{LinkPurposeResetPassword},
		IssuedAt:  jwt.NewNumericDate(testNow),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name    string
		token   string
		purpose string
		want    error
	}{
		{name: "wrong purpose", token: token, purpose: LinkPurposeVerifyEmail, want: ErrBadSignature},
		{name: "expired with wrong purpose", token: stale, purpose: LinkPurposeVerifyEmail, want: ErrBadSignature},
		{name: "other secret", token: foreignToken, purpose: LinkPurposeResetPassword, want: ErrBadSignature},
		{name: "tampered payload", token: tampered, purpose: LinkPurposeResetPassword, want: ErrBadSignature},
		{name: "not a token", token: "hello", purpose: LinkPurposeResetPassword, want: ErrBadSignature},
		{name: "bad encoding", token: "!!.??.##", purpose: LinkPurposeResetPassword, want: ErrBadSignature},
		{name: "session token", token: session, purpose: LinkPurposeResetPassword, want: ErrBadSignature},
		{name: "unsigned", token: unsigned, purpose: LinkPurposeResetPassword, want: ErrBadSignature},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := signer.Decode(tc.token, tc.purpose, 24*time.Hour)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLinkExpiry(t *testing.T) {
	cases := []struct {
		name   string
		expiry time.Duration
		maxAge time.Duration
		age    time.Duration
		want   error
	}{
		{name: "fresh", expiry: time.Hour, maxAge: 24 * time.Hour, age: 59 * time.Minute},
		{name: "past embedded expiry", expiry: 30 * time.Minute, maxAge: 24 * time.Hour, age: 31 * time.Minute, want: ErrLinkExpired},
		{name: "past max age", expiry: 48 * time.Hour, maxAge: time.Hour, age: 2 * time.Hour, want: ErrLinkExpired},
		{name: "zero expiry is already expired", expiry: 0, maxAge: 24 * time.Hour, age: 0, want: ErrLinkExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signer := NewLinkSigner(testSecret)
			signer.now = fixedClock(testNow)
			token, err := signer.Create("alice@example.com", LinkPurposeVerifyEmail, tc.expiry)
			require.NoError(t, err)

			signer.now = fixedClock(testNow.Add(tc.age))
			_, err = signer.Decode(token, LinkPurposeVerifyEmail, tc.maxAge)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
