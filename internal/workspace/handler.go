// AngelaMos | 2026
// handler.go

package workspace

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillworks/platform-api/internal/auth"
	"github.com/quillworks/platform-api/internal/core"
	"github.com/quillworks/platform-api/internal/middleware"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Handler struct {
	service   *Service
	tokens    *auth.TokenService
	cookies   *auth.CookieManager
	validator *validator.Validate
}

func NewHandler(
	service *Service,
	tokens *auth.TokenService,
	cookies *auth.CookieManager,
) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Handler{
		service:   service,
		tokens:    tokens,
		cookies:   cookies,
		validator: v,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/workspaces", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.ListMine)

		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Post("/switch", h.Switch)

			r.Get("/members", h.ListMembers)
			r.Post("/members", h.InviteMember)
			r.Put("/members/{userID}/role", h.UpdateMemberRole)
			r.Delete("/members/{userID}", h.RemoveMember)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	workspace, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("workspace slug"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, workspace)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	workspaces, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, WorkspacesResponse{Workspaces: workspaces})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")

	workspace, err := h.service.Get(r.Context(), userID, workspaceID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, workspace)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")

	var req UpdateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	workspace, err := h.service.Update(r.Context(), userID, workspaceID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, workspace)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")

	members, err := h.service.ListMembers(r.Context(), userID, workspaceID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, MembersResponse{Members: members})
}

func (h *Handler) InviteMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")

	var req InviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	member, err := h.service.InviteMember(r.Context(), userID, workspaceID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		h.respondError(w, err)
		return
	}

	core.Created(w, member)
}

func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")
	targetUserID := chi.URLParam(r, "userID")

	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	member, err := h.service.UpdateMemberRole(
		r.Context(),
		userID,
		workspaceID,
		targetUserID,
		req.Role,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "member")
			return
		}
		h.respondError(w, err)
		return
	}

	core.OK(w, member)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := chi.URLParam(r, "workspaceID")
	targetUserID := chi.URLParam(r, "userID")

	err := h.service.RemoveMember(r.Context(), userID, workspaceID, targetUserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "member")
			return
		}
		h.respondError(w, err)
		return
	}

	core.NoContent(w)
}

// Switch reissues the token pair scoped to the requested workspace.
func (h *Handler) Switch(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		core.JSONError(w, core.CredentialError(nil))
		return
	}
	workspaceID := chi.URLParam(r, "workspaceID")

	membership, tenant, err := h.service.Switch(
		r.Context(),
		principal.UserID,
		workspaceID,
	)
	if err != nil {
		h.respondError(w, err)
		return
	}

	role := membership.Role.String()
	accessToken, err := h.tokens.IssueAccess(
		principal.UserID,
		principal.Email,
		tenant.ID,
		role,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	refreshToken, err := h.tokens.IssueRefresh(
		principal.UserID,
		principal.Email,
		tenant.ID,
		role,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetAuthCookies(w, accessToken, refreshToken)

	core.OK(w, auth.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(h.tokens.AccessTokenTTL().Seconds()),
	})
}

// respondError maps workspace errors onto the wire. Membership denials
// surface as 404 so non-members cannot probe for workspace existence.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientPermissionsError

	switch {
	case errors.Is(err, ErrWorkspaceDenied):
		core.JSONError(w, core.NotFoundError("Workspace not found or access denied"))
	case errors.As(err, &insufficient):
		core.Forbidden(w, insufficient.Error())
	case errors.Is(err, ErrAlreadyMember):
		core.JSONError(w, core.NewAppError(
			err,
			err.Error(),
			http.StatusConflict,
			"ALREADY_MEMBER",
		))
	case errors.Is(err, ErrLastOwner):
		core.JSONError(w, core.NewAppError(
			err,
			err.Error(),
			http.StatusConflict,
			"LAST_OWNER",
		))
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("workspace slug"))
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.NotFoundError("Workspace not found or access denied"))
	default:
		core.InternalServerError(w, err)
	}
}
