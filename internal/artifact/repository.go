// AngelaMos | 2026
// repository.go

package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/quillworks/platform-api/internal/core"
)

// ListFilter narrows and pages a tenant's artifact listing. Zero values
// mean no filtering; limits are clamped by the service.
type ListFilter struct {
	Search string
	Tags   Tags
	Limit  int
	Offset int
}

// Repository runs against a tenant-bound transaction. The row-level
// security policy scopes every statement, so none of the queries filter
// by tenant_id themselves.
type Repository interface {
	Create(ctx context.Context, artifact *Artifact) error
	GetByID(ctx context.Context, id string) (*Artifact, error)
	Update(ctx context.Context, artifact *Artifact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Artifact, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, artifact *Artifact) error {
	query := `
		INSERT INTO artifacts
			(id, tenant_id, name, description, tags, metadata, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING is_active, created_at, updated_at`

	err := r.db.GetContext(ctx, artifact, query,
		artifact.ID,
		artifact.TenantID,
		artifact.Name,
		artifact.Description,
		artifact.Tags,
		artifact.Metadata,
		artifact.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Artifact, error) {
	query := `
		SELECT id, tenant_id, name, description, tags, metadata,
		       created_by, is_active, created_at, updated_at
		FROM artifacts
		WHERE id = $1 AND is_active = true`

	var artifact Artifact
	err := r.db.GetContext(ctx, &artifact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get artifact: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}

	return &artifact, nil
}

func (r *repository) Update(ctx context.Context, artifact *Artifact) error {
	query := `
		UPDATE artifacts
		SET name = $2, description = $3, tags = $4, metadata = $5
		WHERE id = $1 AND is_active = true
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &artifact.UpdatedAt, query,
		artifact.ID,
		artifact.Name,
		artifact.Description,
		artifact.Tags,
		artifact.Metadata,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update artifact: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE artifacts
		SET is_active = false
		WHERE id = $1 AND is_active = true`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete artifact: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]Artifact, int, error) {
	conditions := []string{"is_active = true"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions,
			"name ILIKE $"+strconv.Itoa(len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		conditions = append(conditions,
			"tags @> $"+strconv.Itoa(len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM artifacts WHERE " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count artifacts: %w", err)
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))

	listQuery := `
		SELECT id, tenant_id, name, description, tags, metadata,
		       created_by, is_active, created_at, updated_at
		FROM artifacts
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $` + limitPos + ` OFFSET $` + offsetPos

	var artifacts []Artifact
	if err := r.db.SelectContext(ctx, &artifacts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list artifacts: %w", err)
	}

	return artifacts, total, nil
}
