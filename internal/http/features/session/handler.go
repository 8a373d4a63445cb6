package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// Sessions refreshes and revokes sessions.
type Sessions interface {
	RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	RevokeSession(ctx context.Context, refreshToken string) error
	RevokeAllSessions(ctx context.Context, userID uuid.UUID) error
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// Handler handles session endpoints.
type Handler struct {
	common.Base
	sessions     Sessions
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new session handler.
func NewHandler(base common.Base, sessions Sessions, cookieConfig httputil.CookieConfig) *Handler {
	return &Handler{
		Base:         base,
		sessions:     sessions,
		cookieConfig: cookieConfig,
	}
}

// RefreshRequest represents a token refresh request (for mobile clients).
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh refreshes an access token.
// POST /v1/auth/refresh
//
// For web clients: Reads refresh token from cookie, sets new cookies.
// For mobile clients: Reads/returns tokens in request/response body.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshToken(w, r, true)
	if !ok {
		return
	}
	if refreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.sessions.RefreshSession(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) ||
			errors.Is(err, domain.ErrSessionExpired) ||
			errors.Is(err, domain.ErrSessionRevoked) {
			if !httputil.IsMobileClient(r) {
				httputil.ClearAuthCookies(w, h.cookieConfig)
			}
			httputil.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.Fail(w, r, err)
		return
	}

	common.WriteTokens(w, r, http.StatusOK, tokens, h.sessions, h.cookieConfig)
}

// Logout revokes a session.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshToken(w, r, false)
	if !ok {
		return
	}

	if refreshToken != "" {
		// Errors are ignored so unknown tokens look the same as revoked ones
		if err := h.sessions.RevokeSession(r.Context(), refreshToken); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			h.Logger.Warn("failed to revoke session", "error", err)
		}
	}

	if !httputil.IsMobileClient(r) {
		httputil.ClearAuthCookies(w, h.cookieConfig)
	}
	httputil.NoContent(w)
}

// LogoutAll revokes all sessions for the current user.
// POST /v1/auth/logout/all
// Requires authentication
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	if err := h.sessions.RevokeAllSessions(r.Context(), caller.UserID); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Logger.Info("all sessions revoked", "user_id", caller.UserID)

	if !httputil.IsMobileClient(r) {
		httputil.ClearAuthCookies(w, h.cookieConfig)
	}
	httputil.NoContent(w)
}

// refreshToken reads the refresh token from the body (mobile) or cookie (web).
// A web client without the cookie is rejected only when required is set.
func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request, required bool) (string, bool) {
	if httputil.IsMobileClient(r) {
		var req RefreshRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.Fail(w, r, err)
			return "", false
		}
		return req.RefreshToken, true
	}

	token, ok := httputil.GetRefreshTokenFromCookie(r)
	if !ok && required {
		httputil.Error(w, http.StatusUnauthorized, "refresh token not found")
		return "", false
	}
	return token, true
}
