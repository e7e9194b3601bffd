// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/config"
	"github.com/quillworks/platform-api/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "0123456789abcdef0123456789abcdef",
		Algorithm:          "HS256",
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "platform-api-test",
		Audience:           "platform-api-test",
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testJWTConfig())
	require.NoError(t, err)
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token, TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)
	assert.Empty(t, claims.TenantID)
	assert.Empty(t, claims.Role)
	assert.WithinDuration(
		t,
		time.Now().Add(15*time.Minute),
		claims.ExpiresAt,
		time.Minute,
	)
}

func TestWorkspaceClaimsRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccess("u1", "user@example.com", "t1", "admin")
	require.NoError(t, err)

	claims, err := svc.Verify(token, TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenTypeIsolation(t *testing.T) {
	svc := newTestTokenService(t)

	accessToken, err := svc.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)
	refreshToken, err := svc.IssueRefresh("u1", "user@example.com", "", "")
	require.NoError(t, err)

	// a refresh token is not an access token and vice versa
	_, err = svc.Verify(refreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, core.ErrWrongTokenType)

	_, err = svc.Verify(accessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, core.ErrWrongTokenType)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)

	// zero TTL expires immediately, it never grants a grace window
	for _, ttl := range []time.Duration{-1 * time.Minute, 0} {
		token, err := svc.IssueAccessWithTTL(
			"u1", "user@example.com", "", "",
			ttl,
		)
		require.NoError(t, err)

		_, err = svc.Verify(token, TokenTypeAccess)
		assert.ErrorIs(t, err, core.ErrTokenExpired, "ttl %s", ttl)
	}
}

func TestTamperedToken(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = svc.Verify(tampered, TokenTypeAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestGarbageToken(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.Verify("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenFromDifferentSecret(t *testing.T) {
	svc := newTestTokenService(t)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	other, err := NewTokenService(otherCfg)
	require.NoError(t, err)

	token, err := other.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)

	_, err = svc.Verify(token, TokenTypeAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestUniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService(t)

	first, err := svc.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)
	second, err := svc.IssueAccess("u1", "user@example.com", "", "")
	require.NoError(t, err)

	firstClaims, err := svc.Verify(first, TokenTypeAccess)
	require.NoError(t, err)
	secondClaims, err := svc.Verify(second, TokenTypeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
}

func TestUnsupportedAlgorithm(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Algorithm = "ES256"

	_, err := NewTokenService(cfg)
	assert.Error(t, err)
}
