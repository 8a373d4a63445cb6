// Package invitation manages the invitation lifecycle: create or resend,
// public inspection and acceptance.
package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/auth"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/repository"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Store is the invitation storage used by the service.
type Store interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	GetPendingByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*domain.Invitation, error)
	RefreshPending(ctx context.Context, inv *domain.Invitation) error
	GetDetails(ctx context.Context, id uuid.UUID) (*domain.InvitationDetails, error)
	ListPendingByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Invitation, error)
	Accept(ctx context.Context, p repository.AcceptParams) (bool, error)
}

// Memberships is the membership storage used by the service.
type Memberships interface {
	tenancy.MembershipLookup
	ExistsByEmail(ctx context.Context, organizationID uuid.UUID, email string) (bool, error)
}

// Notification carries what the invitation email needs.
type Notification struct {
	InvitationID     uuid.UUID `json:"invitation_id"`
	Email            string    `json:"email"`
	InviterName      string    `json:"inviter_name"`
	InviterEmail     string    `json:"inviter_email"`
	OrganizationName string    `json:"organization_name"`
	Role             string    `json:"role"`
	AcceptURL        string    `json:"accept_url"`
	ExpiresAt        time.Time `json:"expires_at"`
	Resent           bool      `json:"resent"`
}

// Notifier delivers invitation notifications.
type Notifier interface {
	NotifyInvitation(ctx context.Context, n Notification) error
}

// Config holds invitation settings.
type Config struct {
	// AppBaseURL is the web app origin used in acceptance links.
	AppBaseURL string
	// RequireEmailMatch rejects acceptance by a user whose email differs
	// from the invited address.
	RequireEmailMatch bool
}

// Service implements the invitation lifecycle.
type Service struct {
	config      Config
	store       Store
	memberships Memberships
	guard       *tenancy.Guard
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new invitation service.
func NewService(config Config, store Store, memberships Memberships, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config:      config,
		store:       store,
		memberships: memberships,
		guard:       tenancy.NewGuard(memberships),
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInput describes an invitation request.
type CreateInput struct {
	OrganizationID uuid.UUID
	Email          string
	Role           domain.Role
}

// CreateResult is the outcome of Create.
type CreateResult struct {
	Invitation *domain.Invitation
	// Resent is true when an existing pending invitation was refreshed.
	Resent bool
}

// Create invites an email address to an organization. An existing pending
// invitation for the same address is refreshed instead of duplicated.
func (s *Service) Create(ctx context.Context, caller tenancy.Caller, in CreateInput) (*CreateResult, error) {
	if !in.Role.Invitable() {
		return nil, domain.ErrInvalidRole
	}
	email := auth.NormalizeEmail(in.Email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	if _, err := s.guard.Require(ctx, caller.UserID, in.OrganizationID, tenancy.AdminOrOwner); err != nil {
		return nil, err
	}

	member, err := s.memberships.ExistsByEmail(ctx, in.OrganizationID, email)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, domain.ErrAlreadyMember
	}

	now := s.now()
	result, err := s.refresh(ctx, caller, in.OrganizationID, email, in.Role, now)
	if errors.Is(err, domain.ErrInvitationNotFound) {
		inv := domain.NewInvitation(in.OrganizationID, caller.UserID, email, in.Role, now)
		err = s.store.Create(ctx, inv)
		switch {
		case err == nil:
			result = &CreateResult{Invitation: inv}
		case errors.Is(err, domain.ErrInvitationPending):
			// Lost a race with a concurrent invite for the same address.
			result, err = s.refresh(ctx, caller, in.OrganizationID, email, in.Role, now)
		}
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result)
	return result, nil
}

func (s *Service) refresh(ctx context.Context, caller tenancy.Caller, orgID uuid.UUID, email string, role domain.Role, now time.Time) (*CreateResult, error) {
	inv, err := s.store.GetPendingByEmail(ctx, orgID, email)
	if err != nil {
		return nil, err
	}
	inv.Role = role
	inv.InviterID = caller.UserID
	inv.ExpiresAt = now.Add(domain.InvitationTTL)
	inv.UpdatedAt = now
	if err := s.store.RefreshPending(ctx, inv); err != nil {
		return nil, err
	}
	return &CreateResult{Invitation: inv, Resent: true}, nil
}

// notify dispatches the invitation email. Failures are logged only.
func (s *Service) notify(ctx context.Context, result *CreateResult) {
	if s.notifier == nil {
		return
	}
	inv := result.Invitation

	details, err := s.store.GetDetails(ctx, inv.ID)
	if err != nil {
		s.logger.Error("failed to load invitation for notification", "invitation_id", inv.ID, "error", err)
		return
	}

	n := Notification{
		InvitationID:     inv.ID,
		Email:            inv.Email,
		InviterEmail:     details.InviterEmail,
		InviterName:      details.InviterEmail,
		OrganizationName: details.OrganizationName,
		Role:             string(inv.Role),
		AcceptURL:        s.AcceptURL(inv.ID),
		ExpiresAt:        inv.ExpiresAt,
		Resent:           result.Resent,
	}
	if details.InviterName != nil && *details.InviterName != "" {
		n.InviterName = *details.InviterName
	}

	if err := s.notifier.NotifyInvitation(ctx, n); err != nil {
		s.logger.Error("failed to send invitation", "invitation_id", inv.ID, "error", err)
	}
}

// AcceptURL returns the web link an invitee follows to accept.
func (s *Service) AcceptURL(id uuid.UUID) string {
	base := strings.TrimRight(s.config.AppBaseURL, "/")
	return fmt.Sprintf("%s/accept-invite?token=%s", base, url.QueryEscape(id.String()))
}

// Inspect returns a pending, unexpired invitation for the public preview.
// Expired invitations keep their stored status.
func (s *Service) Inspect(ctx context.Context, token string) (*domain.InvitationDetails, error) {
	id, err := parseToken(token)
	if err != nil {
		return nil, err
	}
	details, err := s.store.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := details.CheckAcceptable(s.now()); err != nil {
		return nil, err
	}
	return details, nil
}

// AcceptResult is the outcome of Accept.
type AcceptResult struct {
	Membership *domain.Membership
	// SessionActivated is true when the organization became the session's
	// active organization.
	SessionActivated bool
}

// Accept grants the caller membership for the invited role. The membership
// insert, status change and session update commit together.
func (s *Service) Accept(ctx context.Context, caller tenancy.Caller, token string) (*AcceptResult, error) {
	id, err := parseToken(token)
	if err != nil {
		return nil, err
	}
	inv, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := inv.CheckAcceptable(now); err != nil {
		return nil, err
	}
	if s.config.RequireEmailMatch && auth.NormalizeEmail(caller.Email) != inv.Email {
		return nil, domain.ErrInvitationEmailMismatch
	}

	_, err = s.memberships.GetByUserAndOrganization(ctx, caller.UserID, inv.OrganizationID)
	if err == nil {
		return nil, domain.ErrAlreadyMember
	}
	if !errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, err
	}

	membership := domain.NewMembership(caller.UserID, inv.OrganizationID, inv.Role, now)
	params := repository.AcceptParams{
		InvitationID: inv.ID,
		Membership:   membership,
		AcceptedAt:   now,
	}
	if caller.SessionID != uuid.Nil {
		sessionID := caller.SessionID
		params.SessionID = &sessionID
	}

	activated, err := s.store.Accept(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("invitation accepted",
		"invitation_id", inv.ID,
		"organization_id", inv.OrganizationID,
		"user_id", caller.UserID,
		"role", inv.Role,
	)
	return &AcceptResult{Membership: membership, SessionActivated: activated}, nil
}

// ListPending returns an organization's pending invitations.
func (s *Service) ListPending(ctx context.Context, organizationID uuid.UUID) ([]*domain.Invitation, error) {
	return s.store.ListPendingByOrganization(ctx, organizationID)
}

func parseToken(token string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return uuid.Nil, domain.ErrInvitationNotFound
	}
	return id, nil
}
