// AngelaMos | 2026
// authz_test.go

package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/platform-api/internal/core"
)

type fakeMembershipStore struct {
	memberships map[string]*Membership
	err         error
}

func membershipKey(userID, tenantID string) string {
	return userID + "/" + tenantID
}

func (f *fakeMembershipStore) GetMembership(
	_ context.Context,
	userID, tenantID string,
) (*Membership, error) {
	if f.err != nil {
		return nil, f.err
	}

	m, ok := f.memberships[membershipKey(userID, tenantID)]
	if !ok {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	return m, nil
}

func storeWith(memberships ...*Membership) *fakeMembershipStore {
	store := &fakeMembershipStore{memberships: map[string]*Membership{}}
	for _, m := range memberships {
		store.memberships[membershipKey(m.UserID, m.TenantID)] = m
	}
	return store
}

func TestRequireMembership(t *testing.T) {
	member := &Membership{
		ID:       "m1",
		UserID:   "u1",
		TenantID: "t1",
		Role:     RoleMember,
		IsActive: true,
	}
	authz := NewAuthorizer(storeWith(member))

	got, err := authz.RequireMembership(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, member, got)
}

func TestRequireMembershipDenied(t *testing.T) {
	authz := NewAuthorizer(storeWith())

	_, err := authz.RequireMembership(context.Background(), "u1", "t1")
	assert.ErrorIs(t, err, ErrWorkspaceDenied)
}

func TestRequireMembershipStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	authz := NewAuthorizer(&fakeMembershipStore{err: storeErr})

	_, err := authz.RequireMembership(context.Background(), "u1", "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrWorkspaceDenied)
}

func TestRequireRole(t *testing.T) {
	admin := &Membership{
		ID:       "m1",
		UserID:   "u1",
		TenantID: "t1",
		Role:     RoleAdmin,
		IsActive: true,
	}
	authz := NewAuthorizer(storeWith(admin))

	got, err := authz.RequireRole(context.Background(), "u1", "t1", RoleMember)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got.Role)

	_, err = authz.RequireRole(context.Background(), "u1", "t1", RoleAdmin)
	require.NoError(t, err)
}

func TestRequireRoleInsufficient(t *testing.T) {
	member := &Membership{
		ID:       "m1",
		UserID:   "u1",
		TenantID: "t1",
		Role:     RoleMember,
		IsActive: true,
	}
	authz := NewAuthorizer(storeWith(member))

	_, err := authz.RequireRole(context.Background(), "u1", "t1", RoleAdmin)

	var insufficient *InsufficientPermissionsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, RoleAdmin, insufficient.Required)
	assert.Equal(t, RoleMember, insufficient.Actual)
	assert.Equal(
		t,
		"Insufficient permissions. Required: admin, Current: member",
		err.Error(),
	)
}

func TestRequireRoleNonMember(t *testing.T) {
	// a non-member gets the membership denial, never a role error that
	// would confirm the workspace exists
	authz := NewAuthorizer(storeWith())

	_, err := authz.RequireRole(context.Background(), "u1", "t1", RoleOwner)
	assert.ErrorIs(t, err, ErrWorkspaceDenied)

	var insufficient *InsufficientPermissionsError
	assert.False(t, errors.As(err, &insufficient))
}
