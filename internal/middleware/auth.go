// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/quillworks/platform-api/internal/core"
)

// Cookie-based clients store the token with the bearer prefix baked in,
// so the cookie path strips it the same way the header path does.
const (
	accessTokenCookie = "access_token"
	bearerPrefix      = "Bearer "
)

// AccessVerifier validates an access token end to end: signature,
// expiry, token type, revocation, and account status. Implemented by
// the auth service.
type AccessVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Principal, error)
}

// Authenticator rejects requests without a valid access token. Every
// failure mode after "no token at all" produces the same generic 401
// so the response never reveals why a credential was refused.
func Authenticator(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("Authentication required"),
				)
				return
			}

			principal, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, core.CredentialError(err))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches a principal when a valid token is present and
// lets the request through either way.
func OptionalAuth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				principal, err := verifier.VerifyAccessToken(r.Context(), token)
				if err == nil {
					ctx := context.WithValue(
						r.Context(),
						PrincipalKey,
						principal,
					)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken reads the access token from the Authorization header,
// falling back to the auth cookie.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := r.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(cookie.Value, bearerPrefix)
}
