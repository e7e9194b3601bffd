// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/core"
)

type fakeUserStore struct {
	byID    map[string]*UserInfo
	byEmail map[string]*UserInfo
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    map[string]*UserInfo{},
		byEmail: map[string]*UserInfo{},
	}
}

func (f *fakeUserStore) add(u *UserInfo) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*UserInfo, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserStore) Create(
	_ context.Context,
	email, passwordHash, firstName, lastName string,
) (*UserInfo, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	u := &UserInfo{
		ID:           "u-" + email,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	f.add(u)
	return u, nil
}

func (f *fakeUserStore) VerifyEmail(_ context.Context, userID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("verify email: %w", core.ErrNotFound)
	}
	u.IsVerified = true
	return nil
}

func (f *fakeUserStore) Deactivate(_ context.Context, userID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("deactivate user: %w", core.ErrNotFound)
	}
	u.IsActive = false
	return nil
}

func newTestAuthService(t *testing.T, users *fakeUserStore) *Service {
	t.Helper()

	tokens := newTestTokenService(t)
	hasher, err := core.NewPasswordHasher(12)
	require.NoError(t, err)

	return NewService(users, nil, tokens, hasher, nil)
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string) *UserInfo {
	t.Helper()

	hasher, err := core.NewPasswordHasher(12)
	require.NoError(t, err)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	u := &UserInfo{
		ID:           "u-" + email,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	users.add(u)
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(t, users)

	response, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", response.Email)
	assert.True(t, response.VerificationRequired)

	stored := users.byEmail["new@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Sup3r$ecret", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "Sup3r$ecret")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "taken@example.com", "Sup3r$ecret")
	svc := newTestAuthService(t, users)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "Sup3r$ecret",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserStore()
	user := seedUser(t, users, "user@example.com", "Sup3r$ecret")
	svc := newTestAuthService(t, users)

	tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Positive(t, tokens.ExpiresIn)

	claims, err := svc.tokens.Verify(tokens.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Empty(t, claims.TenantID, "fresh login carries no workspace scope")
}

func loginFailureMessage(t *testing.T, err error) string {
	t.Helper()

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	return appErr.Message
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserStore()
	seedUser(t, users, "user@example.com", "Sup3r$ecret")
	inactive := seedUser(t, users, "gone@example.com", "Sup3r$ecret")
	inactive.IsActive = false
	svc := newTestAuthService(t, users)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "Sup3r$ecret",
	})
	unknownMsg := loginFailureMessage(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "WrongPass1!",
	})
	wrongMsg := loginFailureMessage(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "gone@example.com",
		Password: "Sup3r$ecret",
	})
	inactiveMsg := loginFailureMessage(t, err)

	assert.Equal(t, "Invalid email or password", unknownMsg)
	assert.Equal(t, unknownMsg, wrongMsg)
	assert.Equal(t, unknownMsg, inactiveMsg)
}

func TestRefreshPreservesWorkspaceScope(t *testing.T) {
	users := newFakeUserStore()
	user := seedUser(t, users, "user@example.com", "Sup3r$ecret")
	svc := newTestAuthService(t, users)

	refreshToken, err := svc.tokens.IssueRefresh(
		user.ID, user.Email, "t1", "admin")
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := svc.tokens.Verify(tokens.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, "admin", claims.Role)

	newRefreshClaims, err := svc.tokens.Verify(
		tokens.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "t1", newRefreshClaims.TenantID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newFakeUserStore()
	user := seedUser(t, users, "user@example.com", "Sup3r$ecret")
	svc := newTestAuthService(t, users)

	accessToken, err := svc.tokens.IssueAccess(user.ID, user.Email, "", "")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), accessToken)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Could not validate credentials", appErr.Message)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	users := newFakeUserStore()
	user := seedUser(t, users, "user@example.com", "Sup3r$ecret")
	svc := newTestAuthService(t, users)

	refreshToken, err := svc.tokens.IssueRefresh(user.ID, user.Email, "", "")
	require.NoError(t, err)

	user.IsActive = false

	_, err = svc.Refresh(context.Background(), refreshToken)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestVerifyEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(t, users)
	user := seedUser(t, users, "new@example.com", "Sup3r$ecret")

	alreadyVerified, err := svc.VerifyEmail(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, alreadyVerified)
	assert.True(t, user.IsVerified)

	alreadyVerified, err = svc.VerifyEmail(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, alreadyVerified)

	_, err = svc.VerifyEmail(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeactivateAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(t, users)
	user := seedUser(t, users, "leaving@example.com", "Sup3r$ecret")

	require.NoError(t, svc.DeactivateAccount(context.Background(), user.ID))
	assert.False(t, user.IsActive)
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Sup3r$ecret", true},
		{"Aa1!aaaa", true},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSpecial123", false},
		{"", false},
	}

	v := NewHandler(nil, nil).validator

	for _, tt := range tests {
		req := struct {
			Password string `validate:"password"`
		}{Password: tt.password}

		err := v.Struct(req)
		if tt.want {
			assert.NoError(t, err, "password %q should pass", tt.password)
		} else {
			assert.Error(t, err, "password %q should fail", tt.password)
		}
	}
}
