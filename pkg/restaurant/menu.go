package restaurant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// MenuItemStore is the menu item storage used by MenuService.
type MenuItemStore interface {
	List(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]*domain.MenuItem, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuItem, error)
	Create(ctx context.Context, m *domain.MenuItem) error
	Update(ctx context.Context, organizationID, id uuid.UUID, p domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuItem, error)
}

// MenuMappingStore is the platform mapping storage used by MenuService.
type MenuMappingStore interface {
	List(ctx context.Context, organizationID uuid.UUID, menuItemID *uuid.UUID) ([]*domain.MenuMapping, error)
	Upsert(ctx context.Context, m *domain.MenuMapping) (*domain.MenuMapping, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuMapping, error)
}

// MenuService manages the master menu and its delivery platform mappings.
type MenuService struct {
	tenant
	items    MenuItemStore
	mappings MenuMappingStore
}

// NewMenuService creates a new menu service.
func NewMenuService(memberships tenancy.MembershipLookup, branches BranchLookup, items MenuItemStore, mappings MenuMappingStore) *MenuService {
	return &MenuService{tenant: newTenant(memberships, branches), items: items, mappings: mappings}
}

// ListItems returns menu items ordered by sort order then name, optionally
// limited to one branch.
func (s *MenuService) ListItems(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) ([]*domain.MenuItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.items.List(ctx, orgID, branchID)
}

// GetItem returns a menu item of the caller's organization.
func (s *MenuService) GetItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.items.Get(ctx, orgID, id)
}

// MenuItemInput describes a new menu item.
type MenuItemInput struct {
	BranchID    *uuid.UUID
	SKU         string
	Name        string
	NameTh      *string
	Description *string
	Price       string
	Category    *string
	IsAvailable *bool
	SortOrder   int
}

// CreateItem adds a menu item. Requires admin or owner.
func (s *MenuService) CreateItem(ctx context.Context, caller tenancy.Caller, in MenuItemInput) (*domain.MenuItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	price, err := domain.ParseAmount(in.Price)
	if err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, orgID, in.BranchID); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.MenuItem{
		ID:             uuid.New(),
		OrganizationID: orgID,
		BranchID:       in.BranchID,
		SKU:            strings.TrimSpace(in.SKU),
		Name:           strings.TrimSpace(in.Name),
		NameTh:         in.NameTh,
		Description:    in.Description,
		Price:          price.String(),
		Category:       in.Category,
		IsAvailable:    true,
		SortOrder:      in.SortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem changes a menu item. Requires admin or owner.
func (s *MenuService) UpdateItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.MenuItemPatch) (*domain.MenuItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, domain.ErrInvalidName
	}
	if p.Price != nil {
		price, err := domain.ParseAmount(*p.Price)
		if err != nil {
			return nil, err
		}
		normalized := price.String()
		p.Price = &normalized
	}
	return s.items.Update(ctx, orgID, id, p)
}

// DeleteItem removes a menu item and its mappings. Requires admin or owner.
func (s *MenuService) DeleteItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuItem, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	return s.items.Delete(ctx, orgID, id)
}

// ListMappings returns platform mappings, optionally for one menu item.
func (s *MenuService) ListMappings(ctx context.Context, caller tenancy.Caller, menuItemID *uuid.UUID) ([]*domain.MenuMapping, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.mappings.List(ctx, orgID, menuItemID)
}

// MappingInput identifies a menu item on a delivery platform.
type MappingInput struct {
	MenuItemID   uuid.UUID
	Platform     domain.Platform
	ExternalID   string
	ExternalName *string
}

// UpsertMapping creates the mapping for (menu item, platform) or replaces
// its external id and name. Requires admin or owner.
func (s *MenuService) UpsertMapping(ctx context.Context, caller tenancy.Caller, in MappingInput) (*domain.MenuMapping, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	if !in.Platform.IsValid() {
		return nil, domain.ErrInvalidPlatform
	}
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		return nil, domain.ErrMissingExternalID
	}

	// The item must belong to the caller's organization.
	if _, err := s.items.Get(ctx, orgID, in.MenuItemID); err != nil {
		return nil, err
	}

	now := s.now()
	return s.mappings.Upsert(ctx, &domain.MenuMapping{
		ID:             uuid.New(),
		OrganizationID: orgID,
		MenuItemID:     in.MenuItemID,
		Platform:       in.Platform,
		ExternalID:     externalID,
		ExternalName:   in.ExternalName,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// DeleteMapping removes a platform mapping. Requires admin or owner.
func (s *MenuService) DeleteMapping(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuMapping, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	return s.mappings.Delete(ctx, orgID, id)
}
