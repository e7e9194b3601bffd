// AngelaMos | 2026
// cookies_test.go

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/config"
)

func testCookieManager() *CookieManager {
	return NewCookieManager(
		config.CookieConfig{Secure: true, SameSite: "lax"},
		15*time.Minute,
		7*24*time.Hour,
	)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSetAuthCookies(t *testing.T) {
	m := testCookieManager()
	rec := httptest.NewRecorder()

	m.SetAuthCookies(rec, "access-tok", "refresh-tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	access := findCookie(cookies, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Positive(t, access.MaxAge)

	refresh := findCookie(cookies, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, refreshCookiePath, refresh.Path)
	assert.True(t, refresh.HttpOnly)
	assert.Greater(t, refresh.MaxAge, access.MaxAge)
}

func TestClearAuthCookies(t *testing.T) {
	m := testCookieManager()
	rec := httptest.NewRecorder()

	m.ClearAuthCookies(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestTokenFromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{
		Name:  AccessTokenCookie,
		Value: "Bearer some-token",
	})

	assert.Equal(t, "some-token", TokenFromCookie(r, AccessTokenCookie))
}

func TestTokenFromCookieWithoutPrefix(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{
		Name:  AccessTokenCookie,
		Value: "bare-token",
	})

	assert.Equal(t, "bare-token", TokenFromCookie(r, AccessTokenCookie))
}

func TestTokenFromCookieMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, TokenFromCookie(r, AccessTokenCookie))
}
