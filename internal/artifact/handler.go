// AngelaMos | 2026
// handler.go

package artifact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillworks/platform-api/internal/core"
	"github.com/quillworks/platform-api/internal/middleware"
	"github.com/quillworks/platform-api/internal/workspace"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/workspaces/{workspaceID}/artifacts", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.TenantResolver)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{artifactID}", h.Get)
		r.Put("/{artifactID}", h.Update)
		r.Delete("/{artifactID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetTenantID(r.Context())

	var req CreateArtifactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	artifact, err := h.service.Create(r.Context(), userID, workspaceID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.Created(w, artifact)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetTenantID(r.Context())

	filter := listFilterFromQuery(r)

	artifacts, err := h.service.List(r.Context(), userID, workspaceID, filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, artifacts)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetTenantID(r.Context())
	artifactID := chi.URLParam(r, "artifactID")

	artifact, err := h.service.Get(r.Context(), userID, workspaceID, artifactID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, artifact)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetTenantID(r.Context())
	artifactID := chi.URLParam(r, "artifactID")

	var req UpdateArtifactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	artifact, err := h.service.Update(
		r.Context(),
		userID,
		workspaceID,
		artifactID,
		req,
	)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.OK(w, artifact)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workspaceID := middleware.GetTenantID(r.Context())
	artifactID := chi.URLParam(r, "artifactID")

	err := h.service.Delete(r.Context(), userID, workspaceID, artifactID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	core.NoContent(w)
}

func listFilterFromQuery(r *http.Request) ListFilter {
	q := r.URL.Query()

	filter := ListFilter{Search: q.Get("search")}

	if tags := q.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}

	return filter
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *workspace.InsufficientPermissionsError

	switch {
	case errors.Is(err, workspace.ErrWorkspaceDenied):
		core.JSONError(w, core.NotFoundError("Workspace not found or access denied"))
	case errors.As(err, &insufficient):
		core.Forbidden(w, insufficient.Error())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "artifact")
	default:
		core.InternalServerError(w, err)
	}
}
