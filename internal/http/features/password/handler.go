package password

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/auth"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// Accounts registers and authenticates password users.
type Accounts interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (uuid.UUID, error)
}

// Sessions issues sessions for authenticated users.
type Sessions interface {
	IssueSession(ctx context.Context, userID uuid.UUID, opts auth.IssueSessionOpts) (*domain.TokenPair, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// Handler handles password authentication endpoints.
type Handler struct {
	common.Base
	accounts     Accounts
	sessions     Sessions
	policy       *auth.PasswordPolicy
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new password handler.
func NewHandler(base common.Base, accounts Accounts, sessions Sessions, policy *auth.PasswordPolicy, cookieConfig httputil.CookieConfig) *Handler {
	return &Handler{
		Base:         base,
		accounts:     accounts,
		sessions:     sessions,
		policy:       policy,
		cookieConfig: cookieConfig,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	Name     string `json:"name" validate:"max=100"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and signs it in. The new session has no
// active organization until one is created, accepted or selected.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.Decode(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Logger.Info("user registered", "user_id", user.ID)

	tokens, err := h.sessions.IssueSession(r.Context(), user.ID, sessionOpts(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	common.WriteTokens(w, r, http.StatusCreated, tokens, h.sessions, h.cookieConfig)
}

// Login authenticates with email and password.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.Decode(w, r, &req) {
		return
	}

	userID, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	tokens, err := h.sessions.IssueSession(r.Context(), userID, sessionOpts(r))
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	common.WriteTokens(w, r, http.StatusOK, tokens, h.sessions, h.cookieConfig)
}

// PolicyResponse describes the password requirements.
type PolicyResponse struct {
	MinLength        int    `json:"minLength"`
	RequireUppercase bool   `json:"requireUppercase"`
	RequireLowercase bool   `json:"requireLowercase"`
	RequireNumber    bool   `json:"requireNumber"`
	RequireSpecial   bool   `json:"requireSpecial"`
	Description      string `json:"description"`
}

// Policy returns the password requirements for sign-up forms.
// GET /v1/auth/password-policy
func (h *Handler) Policy(w http.ResponseWriter, r *http.Request) {
	p := h.policy
	if p == nil {
		p = &auth.PasswordPolicy{}
	}
	httputil.JSON(w, http.StatusOK, PolicyResponse{
		MinLength:        p.MinLength,
		RequireUppercase: p.RequireUppercase,
		RequireLowercase: p.RequireLowercase,
		RequireNumber:    p.RequireNumber,
		RequireSpecial:   p.RequireSpecial,
		Description:      p.Describe(),
	})
}

func sessionOpts(r *http.Request) auth.IssueSessionOpts {
	return auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
