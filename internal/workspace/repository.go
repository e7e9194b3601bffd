// AngelaMos | 2026
// repository.go

package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quillworks/platform-api/internal/core"
)

type Repository interface {
	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenant(ctx context.Context, id string) (*Tenant, error)
	UpdateTenant(ctx context.Context, tenant *Tenant) error
	CountMembers(ctx context.Context, tenantID string) (int, error)

	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembership(
		ctx context.Context,
		userID, tenantID string,
	) (*Membership, error)
	UpsertMembership(ctx context.Context, membership *Membership) error
	UpdateMembershipRole(ctx context.Context, id string, role Role) error
	DeactivateMembership(ctx context.Context, id string) error
	CountActiveOwners(ctx context.Context, tenantID string) (int, error)
	ListMembers(ctx context.Context, tenantID string) ([]MemberDetail, error)
	ListUserWorkspaces(
		ctx context.Context,
		userID string,
	) ([]UserWorkspace, error)
}

type repository struct {
	db core.DBTX
}

// NewRepository binds the repository to db, which may be the pool or an
// open transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTenant(ctx context.Context, tenant *Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, description, settings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING is_active, created_at, updated_at`

	err := r.db.GetContext(ctx, tenant, query,
		tenant.ID,
		tenant.Name,
		tenant.Slug,
		tenant.Description,
		tenant.Settings,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create tenant: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	return nil
}

func (r *repository) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	query := `
		SELECT id, name, slug, description, settings, is_active,
		       created_at, updated_at
		FROM tenants
		WHERE id = $1`

	var tenant Tenant
	err := r.db.GetContext(ctx, &tenant, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	return &tenant, nil
}

func (r *repository) UpdateTenant(ctx context.Context, tenant *Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, description = $3, settings = $4, is_active = $5
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &tenant.UpdatedAt, query,
		tenant.ID,
		tenant.Name,
		tenant.Description,
		tenant.Settings,
		tenant.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}

	return nil
}

func (r *repository) CountMembers(
	ctx context.Context,
	tenantID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workspace_memberships
		WHERE tenant_id = $1 AND is_active = true`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	return count, nil
}

func (r *repository) CreateMembership(
	ctx context.Context,
	membership *Membership,
) error {
	query := `
		INSERT INTO workspace_memberships (id, user_id, tenant_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING is_active, created_at, updated_at`

	err := r.db.GetContext(ctx, membership, query,
		membership.ID,
		membership.UserID,
		membership.TenantID,
		membership.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create membership: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

// GetMembership returns the active membership only. Inactive rows are
// invisible here: a removed member is indistinguishable from a stranger.
func (r *repository) GetMembership(
	ctx context.Context,
	userID, tenantID string,
) (*Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, is_active,
		       created_at, updated_at
		FROM workspace_memberships
		WHERE user_id = $1 AND tenant_id = $2 AND is_active = true`

	var membership Membership
	err := r.db.GetContext(ctx, &membership, query, userID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &membership, nil
}

// UpsertMembership inserts a membership, reviving a previously
// deactivated row for the same (user, tenant) pair. An existing active
// membership is reported as core.ErrDuplicateKey.
func (r *repository) UpsertMembership(
	ctx context.Context,
	membership *Membership,
) error {
	query := `
		INSERT INTO workspace_memberships (id, user_id, tenant_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, tenant_id) DO UPDATE
		SET role = EXCLUDED.role, is_active = true
		WHERE workspace_memberships.is_active = false
		RETURNING id, is_active, created_at, updated_at`

	err := r.db.GetContext(ctx, membership, query,
		membership.ID,
		membership.UserID,
		membership.TenantID,
		membership.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("upsert membership: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

func (r *repository) UpdateMembershipRole(
	ctx context.Context,
	id string,
	role Role,
) error {
	query := `
		UPDATE workspace_memberships
		SET role = $2
		WHERE id = $1 AND is_active = true`

	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership role: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update membership role: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeactivateMembership(ctx context.Context, id string) error {
	query := `
		UPDATE workspace_memberships
		SET is_active = false
		WHERE id = $1 AND is_active = true`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate membership: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate membership: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountActiveOwners(
	ctx context.Context,
	tenantID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workspace_memberships
		WHERE tenant_id = $1 AND role = 'owner' AND is_active = true`

	var count int
	if err := r.db.GetContext(ctx, &count, query, tenantID); err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}

	return count, nil
}

func (r *repository) ListMembers(
	ctx context.Context,
	tenantID string,
) ([]MemberDetail, error) {
	query := `
		SELECT m.id, m.user_id, m.tenant_id, m.role, m.is_active,
		       m.created_at, m.updated_at,
		       u.email AS user_email,
		       u.first_name AS user_first_name,
		       u.last_name AS user_last_name
		FROM workspace_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.tenant_id = $1 AND m.is_active = true
		ORDER BY m.created_at ASC`

	var members []MemberDetail
	if err := r.db.SelectContext(ctx, &members, query, tenantID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

func (r *repository) ListUserWorkspaces(
	ctx context.Context,
	userID string,
) ([]UserWorkspace, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.description, t.settings, t.is_active,
		       t.created_at, t.updated_at,
		       m.role AS membership_role,
		       m.created_at AS joined_at
		FROM workspace_memberships m
		JOIN tenants t ON t.id = m.tenant_id
		WHERE m.user_id = $1 AND m.is_active = true AND t.is_active = true
		ORDER BY m.created_at ASC`

	var workspaces []UserWorkspace
	if err := r.db.SelectContext(ctx, &workspaces, query, userID); err != nil {
		return nil, fmt.Errorf("list user workspaces: %w", err)
	}

	return workspaces, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
