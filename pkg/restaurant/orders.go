package restaurant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// OrderStore is the order storage used by OrderService.
type OrderStore interface {
	List(ctx context.Context, organizationID uuid.UUID, f domain.OrderFilter) ([]*domain.Order, error)
	Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.Order, error)
	Create(ctx context.Context, o *domain.Order) error
	UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
}

// MenuItemLookup loads a menu item within an organization.
type MenuItemLookup interface {
	Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuItem, error)
}

// OrderService records and advances orders from every channel.
type OrderService struct {
	tenant
	orders OrderStore
	menu   MenuItemLookup
}

// NewOrderService creates a new order service.
func NewOrderService(memberships tenancy.MembershipLookup, branches BranchLookup, orders OrderStore, menu MenuItemLookup) *OrderService {
	return &OrderService{tenant: newTenant(memberships, branches), orders: orders, menu: menu}
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, caller tenancy.Caller, f domain.OrderFilter) ([]*domain.Order, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, orgID, f)
}

// Get returns an order of the caller's organization.
func (s *OrderService) Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.Order, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, orgID, id)
}

// OrderInput describes a new order.
type OrderInput struct {
	BranchID        *uuid.UUID
	ExternalOrderID *string
	Source          domain.OrderSource
	CustomerName    *string
	CustomerPhone   *string
	Items           []domain.OrderItem
	Discount        string
	Notes           *string
}

// Create records an order. Line items are snapshotted: a missing name or
// price is copied from the referenced menu item as it is now, so later menu
// edits never change the order.
func (s *OrderService) Create(ctx context.Context, caller tenancy.Caller, in OrderInput) (*domain.Order, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	if in.Source == "" {
		in.Source = domain.OrderSourcePOS
	}
	if !in.Source.IsValid() {
		return nil, domain.ErrInvalidPlatform
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := s.checkBranch(ctx, orgID, in.BranchID); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(in.Items))
	for i, item := range in.Items {
		snapshot, err := s.snapshot(ctx, orgID, item)
		if err != nil {
			return nil, err
		}
		items[i] = snapshot
	}

	now := s.now()
	o := &domain.Order{
		ID:              uuid.New(),
		OrganizationID:  orgID,
		BranchID:        in.BranchID,
		ExternalOrderID: in.ExternalOrderID,
		Source:          in.Source,
		Status:          domain.OrderStatusPending,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		Items:           items,
		Discount:        in.Discount,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := o.CalculateTotals(); err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) snapshot(ctx context.Context, orgID uuid.UUID, item domain.OrderItem) (domain.OrderItem, error) {
	if item.Quantity <= 0 {
		return item, domain.ErrInvalidQuantity
	}
	item.Name = strings.TrimSpace(item.Name)

	if item.MenuItemID != nil && (item.Name == "" || item.Price == "") {
		menuItem, err := s.menu.Get(ctx, orgID, *item.MenuItemID)
		if err != nil {
			return item, err
		}
		if item.Name == "" {
			item.Name = menuItem.Name
		}
		if item.Price == "" {
			item.Price = menuItem.Price
		}
	}

	if item.Name == "" {
		return item, domain.ErrInvalidName
	}
	price, err := domain.ParseAmount(item.Price)
	if err != nil {
		return item, err
	}
	item.Price = price.String()
	return item, nil
}

// UpdateStatus advances an order or cancels it. Accepted and completed
// times are stamped by the transition. An order moved concurrently by
// another request yields domain.ErrInvalidOrderTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, caller tenancy.Caller, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, domain.ErrInvalidOrderTransition
	}

	current, err := s.orders.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidOrderTransition
	}

	return s.orders.UpdateStatus(ctx, orgID, id, current.Status, next, s.now())
}
