package restaurant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// BranchStore is the branch storage used by BranchService.
type BranchStore interface {
	BranchLookup
	List(ctx context.Context, organizationID uuid.UUID) ([]*domain.Branch, error)
	Create(ctx context.Context, b *domain.Branch) error
	Update(ctx context.Context, organizationID, id uuid.UUID, p domain.BranchPatch) (*domain.Branch, error)
}

// BranchService manages an organization's branches.
type BranchService struct {
	tenant
	store BranchStore
}

// NewBranchService creates a new branch service.
func NewBranchService(memberships tenancy.MembershipLookup, store BranchStore) *BranchService {
	return &BranchService{tenant: newTenant(memberships, store), store: store}
}

// List returns the organization's active branches ordered by name.
func (s *BranchService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.Branch, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, orgID)
}

// Get returns a branch of the caller's organization.
func (s *BranchService) Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.Branch, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, orgID, id)
}

// Create adds a branch. Requires admin or owner.
func (s *BranchService) Create(ctx context.Context, caller tenancy.Caller, name string, address *string) (*domain.Branch, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.now()
	b := &domain.Branch{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		Address:        address,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update changes a branch. Requires admin or owner.
func (s *BranchService) Update(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.BranchPatch) (*domain.Branch, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	return s.store.Update(ctx, orgID, id, p)
}
