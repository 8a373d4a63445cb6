package invitation

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/invitation"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Service runs the invitation lifecycle.
type Service interface {
	Create(ctx context.Context, caller tenancy.Caller, in invitation.CreateInput) (*invitation.CreateResult, error)
	Inspect(ctx context.Context, token string) (*domain.InvitationDetails, error)
	Accept(ctx context.Context, caller tenancy.Caller, token string) (*invitation.AcceptResult, error)
}

// Handler handles invitation endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new invitation handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// CreateRequest represents an invitation request.
type CreateRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	// Role defaults to member when omitted.
	Role domain.Role `json:"role" validate:"omitempty,invitable_role"`
}

// CreateResponse is the created or refreshed invitation.
type CreateResponse struct {
	common.InvitationResponse
	Resent bool `json:"resent"`
}

// DetailsResponse is the public preview of a pending invitation.
type DetailsResponse struct {
	ID               uuid.UUID               `json:"id"`
	Email            string                  `json:"email"`
	Role             domain.Role             `json:"role"`
	Status           domain.InvitationStatus `json:"status"`
	OrganizationName string                  `json:"organizationName"`
	OrganizationSlug string                  `json:"organizationSlug"`
	InviterName      *string                 `json:"inviterName"`
	InviterEmail     string                  `json:"inviterEmail"`
	ExpiresAt        time.Time               `json:"expiresAt"`
}

// AcceptResponse is the membership granted by an accepted invitation.
type AcceptResponse struct {
	Membership       common.MembershipResponse `json:"membership"`
	SessionActivated bool                      `json:"sessionActivated"`
}

// Create invites an email address to the organization. Re-inviting a
// pending address refreshes the existing invitation.
// POST /v1/organizations/{id}/invitations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	orgID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleMember
	}

	result, err := h.service.Create(r.Context(), caller, invitation.CreateInput{
		OrganizationID: orgID,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Resent {
		status = http.StatusOK
	}
	httputil.JSON(w, status, CreateResponse{
		InvitationResponse: common.NewInvitationResponse(result.Invitation),
		Resent:             result.Resent,
	})
}

// Get previews a pending invitation. No authentication required.
// GET /v1/invitations/{token}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Inspect(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, DetailsResponse{
		ID:               details.ID,
		Email:            details.Email,
		Role:             details.Role,
		Status:           details.Status,
		OrganizationName: details.OrganizationName,
		OrganizationSlug: details.OrganizationSlug,
		InviterName:      details.InviterName,
		InviterEmail:     details.InviterEmail,
		ExpiresAt:        details.ExpiresAt,
	})
}

// Accept joins the caller to the inviting organization.
// POST /v1/invitations/{token}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	result, err := h.service.Accept(r.Context(), caller, chi.URLParam(r, "token"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, AcceptResponse{
		Membership:       common.NewMembershipResponse(result.Membership),
		SessionActivated: result.SessionActivated,
	})
}
