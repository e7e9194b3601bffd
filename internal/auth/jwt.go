// AngelaMos | 2026
// jwt.go

package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/quillworks/platform-api/internal/config"
	"github.com/quillworks/platform-api/internal/core"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the decoded payload of a verified token. TenantID and Role
// are empty unless the token was minted for a workspace-scoped session.
type Claims struct {
	UserID    string
	Email     string
	TenantID  string
	Role      string
	TokenType string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies the platform's signed tokens. The
// signing key and algorithm are fixed at construction from process
// configuration; a key-id header can be layered on later without
// changing the claim set.
type TokenService struct {
	key       jwk.Key
	algorithm jwa.SignatureAlgorithm
	config    config.JWTConfig
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	alg, err := signatureAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	if setErr := key.Set(jwk.AlgorithmKey, alg); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &TokenService{
		key:       key,
		algorithm: alg,
		config:    cfg,
	}, nil
}

func signatureAlgorithm(name string) (jwa.SignatureAlgorithm, error) {
	switch name {
	case "HS256":
		return jwa.HS256(), nil
	case "HS384":
		return jwa.HS384(), nil
	case "HS512":
		return jwa.HS512(), nil
	default:
		return jwa.SignatureAlgorithm{}, fmt.Errorf(
			"unsupported signing algorithm: %s",
			name,
		)
	}
}

func (s *TokenService) IssueAccess(
	userID, email, tenantID, role string,
) (string, error) {
	return s.issue(
		userID,
		email,
		tenantID,
		role,
		TokenTypeAccess,
		s.config.AccessTokenExpire,
	)
}

func (s *TokenService) IssueAccessWithTTL(
	userID, email, tenantID, role string,
	ttl time.Duration,
) (string, error) {
	return s.issue(userID, email, tenantID, role, TokenTypeAccess, ttl)
}

// IssueRefresh carries the workspace claims forward so that a refresh can
// reissue an access token with the same tenant scope.
func (s *TokenService) IssueRefresh(
	userID, email, tenantID, role string,
) (string, error) {
	return s.issue(
		userID,
		email,
		tenantID,
		role,
		TokenTypeRefresh,
		s.config.RefreshTokenExpire,
	)
}

func (s *TokenService) IssueRefreshWithTTL(
	userID, email, tenantID, role string,
	ttl time.Duration,
) (string, error) {
	return s.issue(userID, email, tenantID, role, TokenTypeRefresh, ttl)
}

func (s *TokenService) issue(
	userID, email, tenantID, role, tokenType string,
	ttl time.Duration,
) (string, error) {
	now := time.Now()

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(s.config.Issuer).
		Audience([]string{s.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim("email", email).
		Claim("token_type", tokenType)

	if tenantID != "" {
		builder = builder.Claim("tenant_id", tenantID)
	}
	if role != "" {
		builder = builder.Claim("role", role)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(s.algorithm, s.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify validates signature, expiry, token type, and required claims.
// Access and refresh tokens are never interchangeable: the token_type
// claim must match expectedType exactly.
func (s *TokenService) Verify(
	tokenString, expectedType string,
) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(s.algorithm, s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("token_type", &tokenType); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing token_type claim: %w",
			core.ErrMalformedClaims,
		)
	}

	if tokenType != expectedType {
		return nil, fmt.Errorf(
			"verify token: expected %s token, got %s: %w",
			expectedType,
			tokenType,
			core.ErrWrongTokenType,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrMalformedClaims,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf(
			"verify token: missing email claim: %w",
			core.ErrMalformedClaims,
		)
	}

	claims := &Claims{
		UserID:    subject,
		Email:     email,
		TokenType: tokenType,
	}

	// Workspace claims are optional on both token types.
	//nolint:errcheck // absent claim leaves the zero value
	_ = token.Get("tenant_id", &claims.TenantID)
	//nolint:errcheck // absent claim leaves the zero value
	_ = token.Get("role", &claims.Role)

	if jti, ok := token.JwtID(); ok {
		claims.TokenID = jti
	}
	if iat, ok := token.IssuedAt(); ok {
		claims.IssuedAt = iat
	}
	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	return claims, nil
}

func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenExpire
}

func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenExpire
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
