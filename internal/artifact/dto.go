// AngelaMos | 2026
// dto.go

package artifact

import (
	"time"
)

type CreateArtifactRequest struct {
	Name        string   `json:"name"        validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Tags        Tags     `json:"tags"        validate:"omitempty,max=20,dive,min=1,max=50"`
	Metadata    Metadata `json:"metadata"`
}

type UpdateArtifactRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Tags        Tags     `json:"tags"        validate:"omitempty,max=20,dive,min=1,max=50"`
	Metadata    Metadata `json:"metadata"`
}

type ArtifactResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        Tags      `json:"tags"`
	Metadata    Metadata  `json:"metadata"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ArtifactListResponse struct {
	Artifacts []ArtifactResponse `json:"artifacts"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

func toArtifactResponse(a *Artifact) ArtifactResponse {
	response := ArtifactResponse{
		ID:          a.ID,
		WorkspaceID: a.TenantID,
		Name:        a.Name,
		Tags:        a.Tags,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Description != nil {
		response.Description = *a.Description
	}
	if a.CreatedBy != nil {
		response.CreatedBy = *a.CreatedBy
	}
	if response.Tags == nil {
		response.Tags = Tags{}
	}
	if response.Metadata == nil {
		response.Metadata = Metadata{}
	}
	return response
}
