// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quillworks/platform-api/internal/core"
	"github.com/quillworks/platform-api/internal/middleware"
)

type Handler struct {
	service   *Service
	cookies   *CookieManager
	validator *validator.Validate
}

func NewHandler(service *Service, cookies *CookieManager) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", passwordStrength)

	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: v,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Delete("/me", h.DeleteMe)
			r.Post("/verify-email", h.VerifyEmail)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	response, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, response)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	tokens, err := h.service.Login(r.Context(), req)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)

	core.OK(w, tokens)
}

// Refresh accepts the refresh token from the request body or, for
// cookie-based clients, from the refresh cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken = TokenFromCookie(r, RefreshTokenCookie)
	}
	if refreshToken == "" {
		core.JSONError(w, core.CredentialError(core.ErrTokenInvalid))
		return
	}

	tokens, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)

	core.OK(w, tokens)
}

// Logout clears the auth cookies and revokes the presented access
// token. It succeeds regardless of token validity.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := bearerToken(r)
	if accessToken == "" {
		accessToken = TokenFromCookie(r, AccessTokenCookie)
	}

	if accessToken != "" {
		if err := h.service.Logout(r.Context(), accessToken); err != nil {
			core.InternalServerError(w, err)
			return
		}
	}

	h.cookies.ClearAuthCookies(w)

	core.OK(w, map[string]string{"message": "Successfully logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		core.JSONError(w, core.CredentialError(nil))
		return
	}

	response, err := h.service.Me(r.Context(), principal.UserID, principal.TenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.CredentialError(err))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, response)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		core.JSONError(w, core.CredentialError(nil))
		return
	}

	alreadyVerified, err := h.service.VerifyEmail(r.Context(), principal.UserID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	message := "Email verified successfully"
	if alreadyVerified {
		message = "Email already verified"
	}

	core.OK(w, map[string]string{"message": message})
}

// DeleteMe deactivates the caller's account and ends the session.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		core.JSONError(w, core.CredentialError(nil))
		return
	}

	if err := h.service.DeactivateAccount(r.Context(), principal.UserID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.cookies.ClearAuthCookies(w)

	core.NoContent(w)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// passwordStrength requires at least one uppercase letter, one
// lowercase letter, one digit, and one special character.
func passwordStrength(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
