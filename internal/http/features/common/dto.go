package common

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// OrganizationResponse is the JSON shape of an organization. Role is set
// when the organization is listed for one of its members.
type OrganizationResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Logo        *string     `json:"logo"`
	Description string      `json:"description,omitempty"`
	Role        domain.Role `json:"role,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func NewOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Slug:        o.Slug,
		Logo:        o.Logo,
		Description: o.Description(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// MembershipResponse is the JSON shape of a membership.
type MembershipResponse struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"userId"`
	OrganizationID uuid.UUID   `json:"organizationId"`
	Role           domain.Role `json:"role"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func NewMembershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		Role:           m.Role,
		CreatedAt:      m.CreatedAt,
	}
}

// InvitationResponse is the JSON shape of an invitation.
type InvitationResponse struct {
	ID             uuid.UUID               `json:"id"`
	OrganizationID uuid.UUID               `json:"organizationId"`
	InviterID      uuid.UUID               `json:"inviterId"`
	Email          string                  `json:"email"`
	Role           domain.Role             `json:"role"`
	Status         domain.InvitationStatus `json:"status"`
	ExpiresAt      time.Time               `json:"expiresAt"`
	CreatedAt      time.Time               `json:"createdAt"`
}

func NewInvitationResponse(i *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		InviterID:      i.InviterID,
		Email:          i.Email,
		Role:           i.Role,
		Status:         i.Status,
		ExpiresAt:      i.ExpiresAt,
		CreatedAt:      i.CreatedAt,
	}
}
