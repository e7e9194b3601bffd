// AngelaMos | 2026
// cookies.go

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/quillworks/platform-api/internal/config"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	bearerPrefix = "Bearer "

	// The refresh cookie is only ever sent to the refresh endpoint.
	refreshCookiePath = "/api/v1/auth/refresh"
)

// CookieManager writes and clears the token cookies. Values carry the
// "Bearer " prefix so header and cookie transport share one parser.
type CookieManager struct {
	cfg        config.CookieConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCookieManager(
	cfg config.CookieConfig,
	accessTTL, refreshTTL time.Duration,
) *CookieManager {
	return &CookieManager{
		cfg:        cfg,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *CookieManager) SetAuthCookies(
	w http.ResponseWriter,
	accessToken, refreshToken string,
) {
	http.SetCookie(w, m.cookie(
		AccessTokenCookie,
		bearerPrefix+accessToken,
		"/",
		m.accessTTL,
	))

	http.SetCookie(w, m.cookie(
		RefreshTokenCookie,
		bearerPrefix+refreshToken,
		refreshCookiePath,
		m.refreshTTL,
	))
}

func (m *CookieManager) ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(AccessTokenCookie, "", "/", -time.Second))
	http.SetCookie(w, m.cookie(
		RefreshTokenCookie,
		"",
		refreshCookiePath,
		-time.Second,
	))
}

func (m *CookieManager) cookie(
	name, value, path string,
	ttl time.Duration,
) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   m.cfg.Domain,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: sameSiteMode(m.cfg.SameSite),
	}

	if ttl > 0 {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl / time.Second)
	} else {
		c.MaxAge = -1
	}

	return c
}

func sameSiteMode(name string) http.SameSite {
	switch name {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// TokenFromCookie extracts a token from the named cookie, accepting the
// value with or without the "Bearer " prefix.
func TokenFromCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	value := cookie.Value
	if strings.HasPrefix(value, bearerPrefix) {
		value = strings.TrimPrefix(value, bearerPrefix)
	}

	return strings.TrimSpace(value)
}
