// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/core"
)

type fakeVerifier struct {
	principal *Principal
	err       error
	gotToken  string
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*Principal, error) {
	f.gotToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.principal, nil
}

func authTestHandler(captured **Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Message
}

func TestAuthenticatorBearerHeader(t *testing.T) {
	principal := &Principal{UserID: "u1", Email: "user@example.com"}
	verifier := &fakeVerifier{principal: principal}

	var got *Principal
	handler := Authenticator(verifier)(authTestHandler(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", verifier.gotToken)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

func TestAuthenticatorCookieFallback(t *testing.T) {
	verifier := &fakeVerifier{principal: &Principal{UserID: "u1"}}

	var got *Principal
	handler := Authenticator(verifier)(authTestHandler(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "Bearer tok-456"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-456", verifier.gotToken)
}

func TestAuthenticatorHeaderWinsOverCookie(t *testing.T) {
	verifier := &fakeVerifier{principal: &Principal{UserID: "u1"}}

	var got *Principal
	handler := Authenticator(verifier)(authTestHandler(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "Bearer from-cookie"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, "from-header", verifier.gotToken)
}

func TestAuthenticatorMissingToken(t *testing.T) {
	verifier := &fakeVerifier{}

	var got *Principal
	handler := Authenticator(verifier)(authTestHandler(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, rec.Body.Bytes()))
	assert.Nil(t, got)
}

func TestAuthenticatorFailuresAreGeneric(t *testing.T) {
	// expired, revoked, and invalid all map to the same message
	for _, tokenErr := range []error{
		core.ErrTokenExpired,
		core.ErrTokenRevoked,
		core.ErrTokenInvalid,
		core.ErrWrongTokenType,
	} {
		verifier := &fakeVerifier{err: tokenErr}

		var got *Principal
		handler := Authenticator(verifier)(authTestHandler(&got))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(
			t,
			"Could not validate credentials",
			errorMessage(t, rec.Body.Bytes()),
		)
		assert.Nil(t, got)
	}
}

func TestExtractTokenMalformedHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	assert.Empty(t, ExtractToken(r))
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	verifier := &fakeVerifier{err: core.ErrTokenInvalid}

	var got *Principal
	handler := OptionalAuth(verifier)(authTestHandler(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}
