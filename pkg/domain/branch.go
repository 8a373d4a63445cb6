package domain

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a physical location of an organization.
type Branch struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Address        *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BranchPatch holds optional branch changes. Nil fields are left unchanged.
type BranchPatch struct {
	Name     *string
	Address  *string
	IsActive *bool
}
