// AngelaMos | 2026
// authz.go

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quillworks/platform-api/internal/core"
)

// ErrWorkspaceDenied covers both "workspace does not exist" and "caller
// is not a member". The two cases are deliberately indistinguishable:
// telling a non-member that a workspace exists is an information leak.
var ErrWorkspaceDenied = errors.New("workspace not found or access denied")

// InsufficientPermissionsError is returned when a member's role ranks
// below the requirement. Unlike membership, the caller's own role is not
// sensitive, so the message names both roles.
type InsufficientPermissionsError struct {
	Required Role
	Actual   Role
}

func (e *InsufficientPermissionsError) Error() string {
	return fmt.Sprintf(
		"Insufficient permissions. Required: %s, Current: %s",
		e.Required,
		e.Actual,
	)
}

// MembershipStore is the read side of the (user, tenant) → role relation,
// supplied by the storage layer.
type MembershipStore interface {
	GetMembership(
		ctx context.Context,
		userID, tenantID string,
	) (*Membership, error)
}

// Authorizer composes membership lookups into role checks against the
// fixed member < admin < owner hierarchy.
type Authorizer struct {
	store MembershipStore
}

func NewAuthorizer(store MembershipStore) *Authorizer {
	return &Authorizer{store: store}
}

func (a *Authorizer) GetMembership(
	ctx context.Context,
	userID, tenantID string,
) (*Membership, error) {
	return a.store.GetMembership(ctx, userID, tenantID)
}

// RequireMembership returns the caller's active membership or
// ErrWorkspaceDenied.
func (a *Authorizer) RequireMembership(
	ctx context.Context,
	userID, tenantID string,
) (*Membership, error) {
	membership, err := a.store.GetMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.Warn("workspace access denied",
				"user_id", userID,
				"workspace_id", tenantID,
			)
			return nil, ErrWorkspaceDenied
		}
		return nil, fmt.Errorf("require membership: %w", err)
	}

	return membership, nil
}

// RequireRole checks membership first, then rank. A role equal to or
// above requiredRole passes.
func (a *Authorizer) RequireRole(
	ctx context.Context,
	userID, tenantID string,
	requiredRole Role,
) (*Membership, error) {
	membership, err := a.RequireMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	if !membership.Role.Meets(requiredRole) {
		slog.Warn("insufficient workspace role",
			"user_id", userID,
			"workspace_id", tenantID,
			"required_role", requiredRole,
			"user_role", membership.Role,
		)
		return nil, &InsufficientPermissionsError{
			Required: requiredRole,
			Actual:   membership.Role,
		}
	}

	return membership, nil
}
