package restaurant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// InventoryStore is the inventory storage used by InventoryService.
type InventoryStore interface {
	List(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]*domain.InventoryItem, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.InventoryItem, error)
	Create(ctx context.Context, i *domain.InventoryItem) error
	Update(ctx context.Context, organizationID, id uuid.UUID, p domain.InventoryPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.InventoryItem, error)
}

// InventoryService tracks stock levels.
type InventoryService struct {
	tenant
	store InventoryStore
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(memberships tenancy.MembershipLookup, branches BranchLookup, store InventoryStore) *InventoryService {
	return &InventoryService{tenant: newTenant(memberships, branches), store: store}
}

// List returns inventory items, optionally for one branch.
func (s *InventoryService) List(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) ([]*domain.InventoryItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, orgID, branchID)
}

// Get returns an inventory item of the caller's organization.
func (s *InventoryService) Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.InventoryItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, orgID, id)
}

// InventoryInput describes a new inventory item.
type InventoryInput struct {
	BranchID          *uuid.UUID
	Name              string
	NameTh            *string
	SKU               *string
	Quantity          string
	Unit              string
	LowStockThreshold string
}

// Create adds an inventory item.
func (s *InventoryService) Create(ctx context.Context, caller tenancy.Caller, in InventoryInput) (*domain.InventoryItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if in.Quantity == "" {
		in.Quantity = "0"
	}
	if in.LowStockThreshold == "" {
		in.LowStockThreshold = domain.DefaultLowStockThreshold
	}
	if in.Unit == "" {
		in.Unit = "unit"
	}
	if err := s.checkBranch(ctx, orgID, in.BranchID); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.InventoryItem{
		ID:                uuid.New(),
		OrganizationID:    orgID,
		BranchID:          in.BranchID,
		Name:              strings.TrimSpace(in.Name),
		NameTh:            in.NameTh,
		SKU:               in.SKU,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		LowStockThreshold: in.LowStockThreshold,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes an inventory item.
func (s *InventoryService) Update(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.InventoryPatch) (*domain.InventoryItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	return s.store.Update(ctx, orgID, id, p)
}

// Delete removes an inventory item. Requires admin or owner.
func (s *InventoryService) Delete(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.InventoryItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	return s.store.Delete(ctx, orgID, id)
}
