// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillworks/platform-api/internal/core"
	"github.com/quillworks/platform-api/internal/middleware"
)

const blacklistKeyPrefix = "blacklist:"

// UserInfo is the account view the auth flows operate on. The user
// package implements UserProvider; defining the types here keeps the
// dependency pointing in one direction.
type UserInfo struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsVerified   bool
	IsActive     bool
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, firstName, lastName string,
	) (*UserInfo, error)
	VerifyEmail(ctx context.Context, userID string) error
	Deactivate(ctx context.Context, userID string) error
}

// WorkspaceDirectory resolves a token's tenant claim into the caller's
// workspace view. Implemented by the workspace service.
type WorkspaceDirectory interface {
	WorkspaceContext(
		ctx context.Context,
		userID, tenantID string,
	) (*WorkspaceContext, error)
}

type Service struct {
	users      UserProvider
	workspaces WorkspaceDirectory
	tokens     *TokenService
	hasher     *core.PasswordHasher
	redis      *core.Redis
}

func NewService(
	users UserProvider,
	workspaces WorkspaceDirectory,
	tokens *TokenService,
	hasher *core.PasswordHasher,
	redis *core.Redis,
) *Service {
	return &Service{
		users:      users,
		workspaces: workspaces,
		tokens:     tokens,
		hasher:     hasher,
		redis:      redis,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(
		ctx,
		req.Email,
		passwordHash,
		req.FirstName,
		req.LastName,
	)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)

	return &RegisterResponse{
		UserID:               user.ID,
		Email:                user.Email,
		VerificationRequired: !user.IsVerified,
	}, nil
}

// Login authenticates by email and password. Unknown email, wrong
// password, and deactivated account all produce the same error after
// the same amount of work, so the response neither confirms nor times
// which accounts exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	var storedHash *string

	user, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if user.IsActive {
			storedHash = &user.PasswordHash
		}
	case errors.Is(err, core.ErrNotFound):
		// fall through with a nil hash; the dummy compare runs below
	default:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.VerifyTimingSafe(req.Password, storedHash) {
		slog.Warn("login failed", "email", req.Email)
		return nil, core.UnauthorizedError("Invalid email or password")
	}

	slog.Info("user logged in", "user_id", user.ID)

	return s.issuePair(user.ID, user.Email, "", "")
}

// Refresh exchanges a refresh token for a fresh pair. The workspace
// claims ride along unchanged, so a tenant-scoped session survives the
// rotation without a second switch call.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, core.CredentialError(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.CredentialError(err)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if !user.IsActive {
		return nil, core.CredentialError(core.ErrTokenInvalid)
	}

	return s.issuePair(user.ID, user.Email, claims.TenantID, claims.Role)
}

// Logout revokes the presented access token by blacklisting its token
// id for the remainder of its lifetime. An already invalid token is a
// no-op; logout never fails the client for it.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Verify(accessToken, TokenTypeAccess)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	key := blacklistKeyPrefix + claims.TokenID
	if err := s.redis.Client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("logout: blacklist token: %w", err)
	}

	slog.Info("user logged out", "user_id", claims.UserID)

	return nil
}

// IsTokenRevoked reports whether a token id was blacklisted by logout.
func (s *Service) IsTokenRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	n, err := s.redis.Client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}

	return n > 0, nil
}

// VerifyAccessToken validates an access token for the authentication
// middleware: signature and expiry first, then the revocation
// blacklist, then the account itself. A deleted or deactivated account
// invalidates every outstanding token immediately.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	claims, err := s.tokens.Verify(token, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		// An unreachable blacklist must not lock out every session.
		slog.Warn("revocation check unavailable", "error", err)
	} else if revoked {
		return nil, core.ErrTokenRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, core.ErrTokenInvalid
	}

	return &middleware.Principal{
		UserID:     user.ID,
		Email:      user.Email,
		TenantID:   claims.TenantID,
		Role:       claims.Role,
		TokenID:    claims.TokenID,
		IsVerified: user.IsVerified,
		IsActive:   user.IsActive,
	}, nil
}

// Me returns the authenticated account, with the current workspace
// attached when the session carries a tenant claim that still maps to
// an active membership.
func (s *Service) Me(
	ctx context.Context,
	userID, tenantID string,
) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := &MeResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: user.IsVerified,
		IsActive:   user.IsActive,
	}

	if tenantID != "" {
		workspace, err := s.workspaces.WorkspaceContext(ctx, userID, tenantID)
		if err != nil {
			return nil, err
		}
		response.Workspace = workspace
	}

	return response, nil
}

// VerifyEmail marks the account verified. Token-based verification over
// email delivery can replace this without changing the route shape.
func (s *Service) VerifyEmail(
	ctx context.Context,
	userID string,
) (alreadyVerified bool, err error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.IsVerified {
		return true, nil
	}

	if err := s.users.VerifyEmail(ctx, userID); err != nil {
		return false, err
	}

	slog.Info("email verified", "user_id", userID)

	return false, nil
}

// DeactivateAccount soft-deletes the caller's account. Every
// outstanding token dies with it through the account check in
// VerifyAccessToken.
func (s *Service) DeactivateAccount(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return err
	}

	slog.Info("account deactivated", "user_id", userID)

	return nil
}

func (s *Service) issuePair(
	userID, email, tenantID, role string,
) (*TokenResponse, error) {
	accessToken, err := s.tokens.IssueAccess(userID, email, tenantID, role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefresh(userID, email, tenantID, role)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
