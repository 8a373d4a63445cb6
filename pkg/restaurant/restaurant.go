// Package restaurant implements the tenant-scoped restaurant resources:
// branches, menu, platform mappings, orders, inventory, payment settings
// and the dashboard.
//
// Every operation resolves the caller's organization first and passes it to
// storage as a filter. Organization ids are never read from input.
package restaurant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// BranchLookup loads a branch within an organization.
type BranchLookup interface {
	Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.Branch, error)
}

// tenant resolves the organization a request acts on.
type tenant struct {
	scope    *tenancy.Scope
	branches BranchLookup
	now      func() time.Time
}

func newTenant(memberships tenancy.MembershipLookup, branches BranchLookup) tenant {
	return tenant{scope: tenancy.NewScope(memberships), branches: branches, now: time.Now}
}

// enter returns the caller's organization after checking membership at level.
func (t tenant) enter(ctx context.Context, caller tenancy.Caller, level tenancy.Level) (uuid.UUID, error) {
	m, err := t.scope.Enter(ctx, caller, level)
	if err != nil {
		return uuid.Nil, err
	}
	return m.OrganizationID, nil
}

// checkBranch verifies that a referenced branch belongs to the organization.
func (t tenant) checkBranch(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) error {
	if branchID == nil {
		return nil
	}
	_, err := t.branches.Get(ctx, organizationID, *branchID)
	return err
}
