// Package organization implements organization listing, selection,
// creation and membership views.
package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Store is the organization storage used by the service.
type Store interface {
	CreateWithOwner(ctx context.Context, org *domain.Organization, owner *domain.Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrganizationWithRole, error)
	Update(ctx context.Context, org *domain.Organization) error
}

// Memberships is the membership storage used by the service.
type Memberships interface {
	tenancy.MembershipLookup
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.MemberWithUser, error)
}

// Sessions persists the session's active organization.
type Sessions interface {
	SetActiveOrganization(ctx context.Context, sessionID, organizationID uuid.UUID) error
}

// PendingInvitations lists an organization's pending invitations.
type PendingInvitations interface {
	ListPending(ctx context.Context, organizationID uuid.UUID) ([]*domain.Invitation, error)
}

// Service implements organization operations.
type Service struct {
	store       Store
	memberships Memberships
	sessions    Sessions
	invitations PendingInvitations
	guard       *tenancy.Guard
	now         func() time.Time
}

// NewService creates a new organization service.
func NewService(store Store, memberships Memberships, sessions Sessions, invitations PendingInvitations) *Service {
	return &Service{
		store:       store,
		memberships: memberships,
		sessions:    sessions,
		invitations: invitations,
		guard:       tenancy.NewGuard(memberships),
		now:         time.Now,
	}
}

// List returns the caller's organizations with the caller's role in each.
func (s *Service) List(ctx context.Context, caller tenancy.Caller) ([]*domain.OrganizationWithRole, error) {
	return s.store.ListByUser(ctx, caller.UserID)
}

// SetActive makes an organization the session's active organization.
// The caller must be a member.
func (s *Service) SetActive(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) (*domain.Organization, error) {
	if _, err := s.guard.Require(ctx, caller.UserID, organizationID, tenancy.AnyRole); err != nil {
		return nil, err
	}
	if err := s.sessions.SetActiveOrganization(ctx, caller.SessionID, organizationID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, organizationID)
}

// CreateInput describes a new organization.
type CreateInput struct {
	Name        string
	Slug        string
	Logo        *string
	Description *string
}

// Create creates an organization owned by the caller. The session's active
// organization is left unchanged.
func (s *Service) Create(ctx context.Context, caller tenancy.Caller, in CreateInput) (*domain.OrganizationWithRole, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	slug := strings.TrimSpace(in.Slug)
	if !domain.ValidSlug(slug) {
		return nil, domain.ErrInvalidSlug
	}

	now := s.now()
	org := &domain.Organization{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Logo:      in.Logo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		org.SetDescription(strings.TrimSpace(*in.Description))
	}

	owner := domain.NewMembership(caller.UserID, org.ID, domain.RoleOwner, now)
	if err := s.store.CreateWithOwner(ctx, org, owner); err != nil {
		return nil, err
	}
	return &domain.OrganizationWithRole{Organization: *org, Role: domain.RoleOwner}, nil
}

// UpdateInput holds optional organization changes.
type UpdateInput struct {
	Name        *string
	Logo        *string
	Description *string
}

// Update changes an organization's name, logo or description.
// Requires admin or owner.
func (s *Service) Update(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID, in UpdateInput) (*domain.Organization, error) {
	if _, err := s.guard.Require(ctx, caller.UserID, organizationID, tenancy.AdminOrOwner); err != nil {
		return nil, err
	}

	org, err := s.store.GetByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != "" {
			org.Name = name
		}
	}
	if in.Logo != nil {
		org.Logo = in.Logo
		if *in.Logo == "" {
			org.Logo = nil
		}
	}
	if in.Description != nil {
		org.SetDescription(strings.TrimSpace(*in.Description))
	}

	if err := s.store.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete is not supported; organizations are never hard-deleted.
func (s *Service) Delete(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) error {
	m, err := s.guard.Require(ctx, caller.UserID, organizationID, tenancy.AdminOrOwner)
	if err != nil {
		return err
	}
	if m.Role != domain.RoleOwner {
		return domain.ErrForbidden
	}
	return domain.ErrNotImplemented
}

// MembersView is an organization's member list.
type MembersView struct {
	Members []*domain.MemberWithUser
	// Invitations holds pending invitations, visible to admins and owners only.
	Invitations []*domain.Invitation
}

// Members lists an organization's members. Any member may view the list;
// pending invitations are included for admins and owners.
func (s *Service) Members(ctx context.Context, caller tenancy.Caller, organizationID uuid.UUID) (*MembersView, error) {
	m, err := s.guard.Require(ctx, caller.UserID, organizationID, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}

	members, err := s.memberships.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	view := &MembersView{Members: members, Invitations: []*domain.Invitation{}}
	if m.Role.IsPrivileged() {
		invitations, err := s.invitations.ListPending(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		if invitations != nil {
			view.Invitations = invitations
		}
	}
	return view, nil
}
