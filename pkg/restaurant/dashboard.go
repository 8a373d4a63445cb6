package restaurant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// StatsStore aggregates dashboard figures.
type StatsStore interface {
	Stats(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*domain.DashboardStats, error)
}

// DashboardService reports organization activity.
type DashboardService struct {
	tenant
	stats StatsStore
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(memberships tenancy.MembershipLookup, branches BranchLookup, stats StatsStore) *DashboardService {
	return &DashboardService{tenant: newTenant(memberships, branches), stats: stats}
}

// GetStats returns revenue, order count, available menu items and member
// count. Callers without any organization get zero stats.
func (s *DashboardService) GetStats(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) (*domain.DashboardStats, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if errors.Is(err, domain.ErrNoOrganization) {
		return domain.EmptyDashboardStats(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, orgID, branchID); err != nil {
		return nil, err
	}
	return s.stats.Stats(ctx, orgID, branchID)
}
