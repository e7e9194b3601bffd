// AngelaMos | 2026
// service.go

package artifact

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quillworks/platform-api/internal/core"
	"github.com/quillworks/platform-api/internal/workspace"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service fronts tenant-scoped artifact storage. Every operation checks
// workspace membership first and then runs inside a tenant-bound
// transaction, so application checks and row-level security back each
// other up.
type Service struct {
	db    *sqlx.DB
	authz *workspace.Authorizer
}

func NewService(db *sqlx.DB, authz *workspace.Authorizer) *Service {
	return &Service{db: db, authz: authz}
}

func (s *Service) Create(
	ctx context.Context,
	userID, tenantID string,
	req CreateArtifactRequest,
) (*ArtifactResponse, error) {
	if _, err := s.authz.RequireMembership(ctx, userID, tenantID); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		CreatedBy: &userID,
	}
	if req.Description != "" {
		artifact.Description = &req.Description
	}

	err := core.InTenantTx(ctx, s.db, tenantID, func(tx *sqlx.Tx) error {
		return NewRepository(tx).Create(ctx, artifact)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("artifact created",
		"artifact_id", artifact.ID,
		"workspace_id", tenantID,
		"user_id", userID,
	)

	response := toArtifactResponse(artifact)
	return &response, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, tenantID, artifactID string,
) (*ArtifactResponse, error) {
	if _, err := s.authz.RequireMembership(ctx, userID, tenantID); err != nil {
		return nil, err
	}

	var artifact *Artifact
	err := core.InTenantTx(ctx, s.db, tenantID, func(tx *sqlx.Tx) error {
		var err error
		artifact, err = NewRepository(tx).GetByID(ctx, artifactID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := toArtifactResponse(artifact)
	return &response, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID, tenantID, artifactID string,
	req UpdateArtifactRequest,
) (*ArtifactResponse, error) {
	if _, err := s.authz.RequireMembership(ctx, userID, tenantID); err != nil {
		return nil, err
	}

	var artifact *Artifact
	err := core.InTenantTx(ctx, s.db, tenantID, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		var err error
		artifact, err = repo.GetByID(ctx, artifactID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			artifact.Name = *req.Name
		}
		if req.Description != nil {
			artifact.Description = req.Description
		}
		if req.Tags != nil {
			artifact.Tags = req.Tags
		}
		if req.Metadata != nil {
			artifact.Metadata = req.Metadata
		}

		return repo.Update(ctx, artifact)
	})
	if err != nil {
		return nil, err
	}

	response := toArtifactResponse(artifact)
	return &response, nil
}

// Delete requires an admin role; members can write artifacts but not
// remove them.
func (s *Service) Delete(
	ctx context.Context,
	userID, tenantID, artifactID string,
) error {
	_, err := s.authz.RequireRole(ctx, userID, tenantID, workspace.RoleAdmin)
	if err != nil {
		return err
	}

	err = core.InTenantTx(ctx, s.db, tenantID, func(tx *sqlx.Tx) error {
		return NewRepository(tx).Delete(ctx, artifactID)
	})
	if err != nil {
		return err
	}

	slog.Info("artifact deleted",
		"artifact_id", artifactID,
		"workspace_id", tenantID,
		"user_id", userID,
	)

	return nil
}

func (s *Service) List(
	ctx context.Context,
	userID, tenantID string,
	filter ListFilter,
) (*ArtifactListResponse, error) {
	if _, err := s.authz.RequireMembership(ctx, userID, tenantID); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var artifacts []Artifact
	var total int
	err := core.InTenantTx(ctx, s.db, tenantID, func(tx *sqlx.Tx) error {
		var err error
		artifacts, total, err = NewRepository(tx).List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ArtifactResponse, 0, len(artifacts))
	for i := range artifacts {
		responses = append(responses, toArtifactResponse(&artifacts[i]))
	}

	return &ArtifactListResponse{
		Artifacts: responses,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}, nil
}
