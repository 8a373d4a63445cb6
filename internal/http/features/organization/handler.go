package organization

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/organization"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Service manages organizations on behalf of the caller.
type Service interface {
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.OrganizationWithRole, error)
	Create(ctx context.Context, caller tenancy.Caller, in organization.CreateInput) (*domain.OrganizationWithRole, error)
	Update(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID, in organization.UpdateInput) (*domain.Organization, error)
	Delete(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) error
	SetActive(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) (*domain.Organization, error)
	Members(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) (*organization.MembersView, error)
}

// Handler handles organization endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new organization handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// CreateRequest represents an organization creation request.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,slug,max=63"`
	Logo        *string `json:"logo" validate:"omitempty,url,max=2048"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// UpdateRequest represents an organization update. An empty logo clears it.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Logo        *string `json:"logo" validate:"omitempty,max=2048"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// SetActiveRequest selects the session's active organization.
type SetActiveRequest struct {
	OrganizationID uuid.UUID `json:"organizationId" validate:"required"`
}

// MemberResponse is a member together with their user profile.
type MemberResponse struct {
	common.MembershipResponse
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// MembersResponse lists members and, for admins, pending invitations.
type MembersResponse struct {
	Members     []MemberResponse            `json:"members"`
	Invitations []common.InvitationResponse `json:"invitations"`
}

// List returns the caller's organizations with their role in each.
// GET /v1/organizations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	orgs, err := h.service.List(r.Context(), caller)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.Page[common.OrganizationResponse]{
		Data: common.Map(orgs, withRole),
	})
}

// Create creates an organization owned by the caller.
// POST /v1/organizations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	org, err := h.service.Create(r.Context(), caller, organization.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Logo:        req.Logo,
		Description: req.Description,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Logger.Info("organization created", "organization_id", org.ID, "user_id", caller.UserID)

	httputil.JSON(w, http.StatusCreated, withRole(org))
}

// Update changes an organization's profile.
// PATCH /v1/organizations/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	org, err := h.service.Update(r.Context(), caller, id, organization.UpdateInput{
		Name:        req.Name,
		Logo:        req.Logo,
		Description: req.Description,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.NewOrganizationResponse(org))
}

// Delete is reserved; organizations cannot be deleted through the API.
// DELETE /v1/organizations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// SetActive switches the session's active organization.
// POST /v1/organizations/active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	var req SetActiveRequest
	if !h.Decode(w, r, &req) {
		return
	}

	org, err := h.service.SetActive(r.Context(), caller, req.OrganizationID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Logger.Info("active organization changed", "organization_id", org.ID, "user_id", caller.UserID)

	httputil.JSON(w, http.StatusOK, common.NewOrganizationResponse(org))
}

// Members lists an organization's members.
// GET /v1/organizations/{id}/members
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.service.Members(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, MembersResponse{
		Members: common.Map(view.Members, func(m *domain.MemberWithUser) MemberResponse {
			return MemberResponse{
				MembershipResponse: common.NewMembershipResponse(&m.Membership),
				Email:              m.Email,
				Name:               m.Name,
				Image:              m.Image,
			}
		}),
		Invitations: common.Map(view.Invitations, common.NewInvitationResponse),
	})
}

func withRole(o *domain.OrganizationWithRole) common.OrganizationResponse {
	resp := common.NewOrganizationResponse(&o.Organization)
	resp.Role = o.Role
	return resp
}
