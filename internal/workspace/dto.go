// AngelaMos | 2026
// dto.go

package workspace

import (
	"time"
)

type CreateWorkspaceRequest struct {
	Name        string   `json:"name"        validate:"required,min=1,max=255"`
	Slug        string   `json:"slug"        validate:"required,min=1,max=100,slug"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Settings    Settings `json:"settings"`
}

type UpdateWorkspaceRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Settings    Settings `json:"settings"`
	IsActive    *bool    `json:"is_active"`
}

type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  Role   `json:"role"  validate:"required,oneof=owner admin member"`
}

type UpdateMemberRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=owner admin member"`
}

type WorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Settings    Settings  `json:"settings"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	MemberCount int       `json:"member_count"`
	UserRole    string    `json:"user_role,omitempty"`
}

type MemberResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
}

type WorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}
