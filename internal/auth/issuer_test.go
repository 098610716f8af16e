package auth

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/observability"
)

func TestIssuerIssuesBothKinds(t *testing.T) {
	codec := NewCodec(testSecret)
	codec.now = fixedClock(testNow.Add(450 * time.Millisecond))
	issuer := NewIssuer(codec, 30*time.Minute, 48*time.Hour, nil)
	id := testIdentity()

	access, err := issuer.IssueAccess(id)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh(id)
	require.NoError(t, err)

	assert.Equal(t, domain.TokenKindAccess, access.Kind)
	assert.Equal(t, domain.TokenKindRefresh, refresh.Kind)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.True(t, access.IssuedAt.Equal(testNow))
	assert.True(t, access.ExpiresAt.Equal(testNow.Add(30*time.Minute)))
	assert.True(t, refresh.ExpiresAt.Equal(testNow.Add(48*time.Hour)))

	accessClaims, err := codec.Decode(access.Value)
	require.NoError(t, err)
	assert.False(t, accessClaims.Refresh)
	assert.Equal(t, access.ID, accessClaims.ID)
	assert.Equal(t, id.UserID, accessClaims.UserID)
	assert.Equal(t, id.Username, accessClaims.Username)
	assert.Equal(t, Roles(id.Roles), accessClaims.Role)
	assert.True(t, accessClaims.ExpiresAt.Time.Equal(access.ExpiresAt))

	refreshClaims, err := codec.Decode(refresh.Value)
	require.NoError(t, err)
	assert.True(t, refreshClaims.Refresh)
	assert.Equal(t, refresh.ID, refreshClaims.ID)
}

func TestIssuerUsesFreshIdentifiers(t *testing.T) {
	issuer := NewIssuer(NewCodec(testSecret), time.Minute, time.Hour, nil)
	id := testIdentity()

	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		token, err := issuer.IssueAccess(id)
		require.NoError(t, err)
		_, dup := seen[token.ID]
		require.False(t, dup)
		seen[token.ID] = struct{}{}
	}
}

func TestIssuerRecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	issuer := NewIssuer(NewCodec(testSecret), time.Minute, time.Hour, metrics)

	_, err := issuer.IssueAccess(testIdentity())
	require.NoError(t, err)
	_, err = issuer.IssueRefresh(testIdentity())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(metrics.Registry(), "auth_tokens_issued_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
