// AngelaMos | 2026
// service.go

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quillworks/platform-api/internal/auth"
	"github.com/quillworks/platform-api/internal/core"
)

var (
	// ErrLastOwner blocks the demotion or removal that would leave a
	// workspace with no active owner.
	ErrLastOwner = errors.New("workspace must retain at least one owner")

	// ErrAlreadyMember is returned when inviting a user who already
	// holds an active membership.
	ErrAlreadyMember = errors.New("user is already a member of this workspace")
)

// UserDirectory resolves invitee emails to accounts. Implemented by the
// user service.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error)
}

type Service struct {
	db    *sqlx.DB
	repo  Repository
	authz *Authorizer
	users UserDirectory
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	authz *Authorizer,
	users UserDirectory,
) *Service {
	return &Service{db: db, repo: repo, authz: authz, users: users}
}

// Create inserts the tenant and the creator's owner membership in one
// transaction. A workspace never exists without an owner.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateWorkspaceRequest,
) (*WorkspaceResponse, error) {
	tenant := &Tenant{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Slug:     req.Slug,
		Settings: req.Settings,
	}
	if req.Description != "" {
		tenant.Description = &req.Description
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		if err := txRepo.CreateTenant(ctx, tenant); err != nil {
			return err
		}

		membership := &Membership{
			ID:       uuid.NewString(),
			UserID:   userID,
			TenantID: tenant.ID,
			Role:     RoleOwner,
		}
		return txRepo.CreateMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("workspace created",
		"workspace_id", tenant.ID,
		"slug", tenant.Slug,
		"owner_id", userID,
	)

	response := toWorkspaceResponse(tenant, 1, RoleOwner)
	return &response, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
) ([]WorkspaceResponse, error) {
	workspaces, err := s.repo.ListUserWorkspaces(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]WorkspaceResponse, 0, len(workspaces))
	for i := range workspaces {
		w := &workspaces[i]
		response := toWorkspaceResponse(&w.Tenant, 0, w.Role)
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, tenantID string,
) (*WorkspaceResponse, error) {
	membership, err := s.authz.RequireMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := toWorkspaceResponse(tenant, count, membership.Role)
	return &response, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID, tenantID string,
	req UpdateWorkspaceRequest,
) (*WorkspaceResponse, error) {
	membership, err := s.authz.RequireRole(ctx, userID, tenantID, RoleAdmin)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Description != nil {
		tenant.Description = req.Description
	}
	if req.Settings != nil {
		tenant.Settings = req.Settings
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateTenant(ctx, tenant); err != nil {
		return nil, err
	}

	count, err := s.repo.CountMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := toWorkspaceResponse(tenant, count, membership.Role)
	return &response, nil
}

func (s *Service) ListMembers(
	ctx context.Context,
	userID, tenantID string,
) ([]MemberResponse, error) {
	if _, err := s.authz.RequireMembership(ctx, userID, tenantID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toMemberResponse(&members[i]))
	}

	return responses, nil
}

// InviteMember adds an existing account to the workspace. Admins may
// invite members and admins; only owners may invite owners. Inviting a
// previously removed user revives the old membership row.
func (s *Service) InviteMember(
	ctx context.Context,
	actorID, tenantID string,
	req InviteMemberRequest,
) (*MemberResponse, error) {
	requiredRole := RoleAdmin
	if req.Role == RoleOwner {
		requiredRole = RoleOwner
	}
	if _, err := s.authz.RequireRole(ctx, actorID, tenantID, requiredRole); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("invite member: user: %w", core.ErrNotFound)
		}
		return nil, err
	}
	if !invitee.IsActive {
		return nil, fmt.Errorf("invite member: user: %w", core.ErrNotFound)
	}

	membership := &Membership{
		ID:       uuid.NewString(),
		UserID:   invitee.ID,
		TenantID: tenantID,
		Role:     req.Role,
	}
	if err := s.repo.UpsertMembership(ctx, membership); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	slog.Info("workspace member invited",
		"workspace_id", tenantID,
		"user_id", invitee.ID,
		"role", req.Role,
		"invited_by", actorID,
	)

	detail := MemberDetail{Membership: *membership, UserEmail: invitee.Email}
	if invitee.FirstName != "" {
		detail.UserFirstName = &invitee.FirstName
	}
	if invitee.LastName != "" {
		detail.UserLastName = &invitee.LastName
	}

	response := toMemberResponse(&detail)
	return &response, nil
}

// UpdateMemberRole changes a member's role. Touching an owner, in either
// direction, requires the actor to be an owner, and the last active
// owner can never be demoted.
func (s *Service) UpdateMemberRole(
	ctx context.Context,
	actorID, tenantID, targetUserID string,
	role Role,
) (*MemberResponse, error) {
	actor, err := s.authz.RequireRole(ctx, actorID, tenantID, RoleAdmin)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.GetMembership(ctx, targetUserID, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("update member role: member: %w", core.ErrNotFound)
		}
		return nil, err
	}

	if (role == RoleOwner || target.Role == RoleOwner) && !actor.Role.Meets(RoleOwner) {
		return nil, &InsufficientPermissionsError{
			Required: RoleOwner,
			Actual:   actor.Role,
		}
	}

	if target.Role == RoleOwner && role != RoleOwner {
		owners, err := s.repo.CountActiveOwners(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, ErrLastOwner
		}
	}

	if err := s.repo.UpdateMembershipRole(ctx, target.ID, role); err != nil {
		return nil, err
	}
	target.Role = role

	slog.Info("workspace member role updated",
		"workspace_id", tenantID,
		"user_id", targetUserID,
		"role", role,
		"updated_by", actorID,
	)

	members, err := s.repo.ListMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].UserID == targetUserID {
			response := toMemberResponse(&members[i])
			return &response, nil
		}
	}

	response := toMemberResponse(&MemberDetail{Membership: *target})
	return &response, nil
}

// RemoveMember deactivates a membership. Admins may remove members and
// admins, owners may remove anyone, and any member may leave on their
// own, except the last active owner.
func (s *Service) RemoveMember(
	ctx context.Context,
	actorID, tenantID, targetUserID string,
) error {
	var actorRole Role
	if actorID == targetUserID {
		membership, err := s.authz.RequireMembership(ctx, actorID, tenantID)
		if err != nil {
			return err
		}
		actorRole = membership.Role
	} else {
		membership, err := s.authz.RequireRole(ctx, actorID, tenantID, RoleAdmin)
		if err != nil {
			return err
		}
		actorRole = membership.Role
	}

	target, err := s.repo.GetMembership(ctx, targetUserID, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("remove member: member: %w", core.ErrNotFound)
		}
		return err
	}

	if target.Role == RoleOwner {
		if actorID != targetUserID && !actorRole.Meets(RoleOwner) {
			return &InsufficientPermissionsError{
				Required: RoleOwner,
				Actual:   actorRole,
			}
		}

		owners, err := s.repo.CountActiveOwners(ctx, tenantID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	if err := s.repo.DeactivateMembership(ctx, target.ID); err != nil {
		return err
	}

	slog.Info("workspace member removed",
		"workspace_id", tenantID,
		"user_id", targetUserID,
		"removed_by", actorID,
	)

	return nil
}

// Switch validates that the caller may operate inside the workspace and
// returns the membership and tenant used to mint tenant-scoped tokens.
// An inactive tenant is treated the same as a missing one.
func (s *Service) Switch(
	ctx context.Context,
	userID, tenantID string,
) (*Membership, *Tenant, error) {
	membership, err := s.authz.RequireMembership(ctx, userID, tenantID)
	if err != nil {
		return nil, nil, err
	}

	tenant, err := s.repo.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, ErrWorkspaceDenied
		}
		return nil, nil, err
	}
	if !tenant.IsActive {
		return nil, nil, ErrWorkspaceDenied
	}

	return membership, tenant, nil
}

// WorkspaceContext resolves the tenant claim carried by a token into the
// caller's current workspace view. A stale or revoked membership yields
// no context rather than an error.
func (s *Service) WorkspaceContext(
	ctx context.Context,
	userID, tenantID string,
) (*auth.WorkspaceContext, error) {
	membership, err := s.repo.GetMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tenant, err := s.repo.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &auth.WorkspaceContext{
		ID:   tenant.ID,
		Name: tenant.Name,
		Slug: tenant.Slug,
		Role: membership.Role.String(),
	}, nil
}

func toWorkspaceResponse(
	tenant *Tenant,
	memberCount int,
	role Role,
) WorkspaceResponse {
	response := WorkspaceResponse{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Slug:        tenant.Slug,
		Settings:    tenant.Settings,
		IsActive:    tenant.IsActive,
		CreatedAt:   tenant.CreatedAt,
		UpdatedAt:   tenant.UpdatedAt,
		MemberCount: memberCount,
		UserRole:    role.String(),
	}
	if tenant.Description != nil {
		response.Description = *tenant.Description
	}
	return response
}

func toMemberResponse(member *MemberDetail) MemberResponse {
	name := ""
	if member.UserFirstName != nil {
		name = *member.UserFirstName
	}
	if member.UserLastName != nil {
		if name != "" {
			name += " "
		}
		name += *member.UserLastName
	}

	return MemberResponse{
		ID:       member.ID,
		UserID:   member.UserID,
		Email:    member.UserEmail,
		Name:     name,
		Role:     member.Role.String(),
		JoinedAt: member.CreatedAt,
	}
}
