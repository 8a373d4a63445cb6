package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationTTL is how long an invitation stays acceptable after it is sent.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
	InvitationStatusCanceled InvitationStatus = "canceled"
)

// Invitation is a pending offer of membership addressed to an email.
// The invitation ID doubles as the acceptance token.
type Invitation struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	InviterID      uuid.UUID
	Email          string
	Role           Role
	Status         InvitationStatus
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
	RejectedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvitation creates a pending invitation expiring InvitationTTL after now.
func NewInvitation(organizationID, inviterID uuid.UUID, email string, role Role, now time.Time) *Invitation {
	return &Invitation{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		InviterID:      inviterID,
		Email:          email,
		Role:           role,
		Status:         InvitationStatusPending,
		ExpiresAt:      now.Add(InvitationTTL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsPending reports whether the invitation has not been resolved.
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}

// IsExpired reports whether the invitation is past its expiry at now.
// Expiry is computed on read; the stored status is never changed by it.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CheckAcceptable returns an error if the invitation cannot be viewed or accepted at now.
func (i *Invitation) CheckAcceptable(now time.Time) error {
	if !i.IsPending() {
		return ErrInvitationNotPending
	}
	if i.IsExpired(now) {
		return ErrInvitationExpired
	}
	return nil
}

// InvitationDetails is an invitation joined with the names shown to the invitee.
type InvitationDetails struct {
	Invitation
	OrganizationName string
	OrganizationSlug string
	InviterName      *string
	InviterEmail     string
}
