package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within an organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole parses a role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may perform administrative actions.
func (r Role) IsPrivileged() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Invitable reports whether the role can be granted through an invitation.
// Ownership is only assigned when an organization is created.
func (r Role) Invitable() bool {
	return r == RoleAdmin || r == RoleMember
}

// Membership links a user to an organization with a role.
type Membership struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewMembership creates a membership stamped with the given time.
func NewMembership(userID, organizationID uuid.UUID, role Role, now time.Time) *Membership {
	return &Membership{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MemberWithUser is a membership joined with the member's profile.
type MemberWithUser struct {
	Membership
	Email string
	Name  *string
	Image *string
}
