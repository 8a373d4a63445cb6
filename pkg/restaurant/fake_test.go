package restaurant

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// world is an in-memory set of stores shared by every service under test.
type world struct {
	members  []*domain.Membership
	branches map[uuid.UUID]*domain.Branch
	items    map[uuid.UUID]*domain.MenuItem
	mappings map[uuid.UUID]*domain.MenuMapping
	orders   map[uuid.UUID]*domain.Order
	stock    map[uuid.UUID]*domain.InventoryItem
	payments map[uuid.UUID]*domain.PaymentConfig
}

func newWorld() *world {
	return &world{
		branches: map[uuid.UUID]*domain.Branch{},
		items:    map[uuid.UUID]*domain.MenuItem{},
		mappings: map[uuid.UUID]*domain.MenuMapping{},
		orders:   map[uuid.UUID]*domain.Order{},
		stock:    map[uuid.UUID]*domain.InventoryItem{},
		payments: map[uuid.UUID]*domain.PaymentConfig{},
	}
}

// join adds a user to an organization and returns a caller for them.
func (w *world) join(orgID uuid.UUID, role domain.Role) tenancy.Caller {
	userID := uuid.New()
	w.members = append(w.members, domain.NewMembership(userID, orgID, role, time.Now()))
	return tenancy.Caller{UserID: userID, SessionID: uuid.New(), ActiveOrganizationID: &orgID}
}

type memberships struct{ w *world }

func (m memberships) GetEarliestByUser(_ context.Context, userID uuid.UUID) (*domain.Membership, error) {
	for _, mm := range m.w.members {
		if mm.UserID == userID {
			return mm, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (m memberships) GetByUserAndOrganization(_ context.Context, userID, orgID uuid.UUID) (*domain.Membership, error) {
	for _, mm := range m.w.members {
		if mm.UserID == userID && mm.OrganizationID == orgID {
			return mm, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

type branchStore struct{ w *world }

func (s branchStore) Get(_ context.Context, orgID, id uuid.UUID) (*domain.Branch, error) {
	b, ok := s.w.branches[id]
	if !ok || b.OrganizationID != orgID {
		return nil, domain.ErrBranchNotFound
	}
	return b, nil
}

func (s branchStore) List(_ context.Context, orgID uuid.UUID) ([]*domain.Branch, error) {
	out := []*domain.Branch{}
	for _, b := range s.w.branches {
		if b.OrganizationID == orgID && b.IsActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s branchStore) Create(_ context.Context, b *domain.Branch) error {
	s.w.branches[b.ID] = b
	return nil
}

func (s branchStore) Update(ctx context.Context, orgID, id uuid.UUID, p domain.BranchPatch) (*domain.Branch, error) {
	b, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Address != nil {
		b.Address = p.Address
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
	return b, nil
}

type itemStore struct{ w *world }

func (s itemStore) List(_ context.Context, orgID uuid.UUID, branchID *uuid.UUID) ([]*domain.MenuItem, error) {
	out := []*domain.MenuItem{}
	for _, m := range s.w.items {
		if m.OrganizationID != orgID {
			continue
		}
		if branchID != nil && (m.BranchID == nil || *m.BranchID != *branchID) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s itemStore) Get(_ context.Context, orgID, id uuid.UUID) (*domain.MenuItem, error) {
	m, ok := s.w.items[id]
	if !ok || m.OrganizationID != orgID {
		return nil, domain.ErrMenuItemNotFound
	}
	cp := *m
	return &cp, nil
}

func (s itemStore) Create(_ context.Context, m *domain.MenuItem) error {
	cp := *m
	s.w.items[m.ID] = &cp
	return nil
}

func (s itemStore) Update(_ context.Context, orgID, id uuid.UUID, p domain.MenuItemPatch) (*domain.MenuItem, error) {
	m, ok := s.w.items[id]
	if !ok || m.OrganizationID != orgID {
		return nil, domain.ErrMenuItemNotFound
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.IsAvailable != nil {
		m.IsAvailable = *p.IsAvailable
	}
	cp := *m
	return &cp, nil
}

func (s itemStore) Delete(_ context.Context, orgID, id uuid.UUID) (*domain.MenuItem, error) {
	m, ok := s.w.items[id]
	if !ok || m.OrganizationID != orgID {
		return nil, domain.ErrMenuItemNotFound
	}
	delete(s.w.items, id)
	return m, nil
}

type mappingStore struct{ w *world }

func (s mappingStore) List(_ context.Context, orgID uuid.UUID, menuItemID *uuid.UUID) ([]*domain.MenuMapping, error) {
	out := []*domain.MenuMapping{}
	for _, m := range s.w.mappings {
		if m.OrganizationID == orgID && (menuItemID == nil || m.MenuItemID == *menuItemID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Upsert mirrors ON CONFLICT (menu_item_id, platform) DO UPDATE.
func (s mappingStore) Upsert(_ context.Context, m *domain.MenuMapping) (*domain.MenuMapping, error) {
	for _, existing := range s.w.mappings {
		if existing.MenuItemID == m.MenuItemID && existing.Platform == m.Platform {
			if existing.OrganizationID != m.OrganizationID {
				return nil, domain.ErrMenuMappingNotFound
			}
			existing.ExternalID = m.ExternalID
			existing.ExternalName = m.ExternalName
			existing.UpdatedAt = m.UpdatedAt
			return existing, nil
		}
	}
	cp := *m
	s.w.mappings[m.ID] = &cp
	return &cp, nil
}

func (s mappingStore) Delete(_ context.Context, orgID, id uuid.UUID) (*domain.MenuMapping, error) {
	m, ok := s.w.mappings[id]
	if !ok || m.OrganizationID != orgID {
		return nil, domain.ErrMenuMappingNotFound
	}
	delete(s.w.mappings, id)
	return m, nil
}

type orderStore struct{ w *world }

func (s orderStore) List(_ context.Context, orgID uuid.UUID, f domain.OrderFilter) ([]*domain.Order, error) {
	out := []*domain.Order{}
	for _, o := range s.w.orders {
		if o.OrganizationID == orgID && (f.Status == nil || o.Status == *f.Status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s orderStore) Get(_ context.Context, orgID, id uuid.UUID) (*domain.Order, error) {
	o, ok := s.w.orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s orderStore) Create(_ context.Context, o *domain.Order) error {
	cp := *o
	s.w.orders[o.ID] = &cp
	return nil
}

func (s orderStore) UpdateStatus(_ context.Context, orgID, id uuid.UUID, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	o, ok := s.w.orders[id]
	if !ok || o.OrganizationID != orgID || o.Status != from {
		return nil, domain.ErrInvalidOrderTransition
	}
	o.Status = to
	o.UpdatedAt = at
	switch to {
	case domain.OrderStatusAccepted:
		o.AcceptedAt = &at
	case domain.OrderStatusCompleted:
		o.CompletedAt = &at
	}
	cp := *o
	return &cp, nil
}

type stockStore struct{ w *world }

func (s stockStore) List(_ context.Context, orgID uuid.UUID, _ *uuid.UUID) ([]*domain.InventoryItem, error) {
	out := []*domain.InventoryItem{}
	for _, i := range s.w.stock {
		if i.OrganizationID == orgID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s stockStore) Get(_ context.Context, orgID, id uuid.UUID) (*domain.InventoryItem, error) {
	i, ok := s.w.stock[id]
	if !ok || i.OrganizationID != orgID {
		return nil, domain.ErrInventoryItemNotFound
	}
	return i, nil
}

func (s stockStore) Create(_ context.Context, i *domain.InventoryItem) error {
	s.w.stock[i.ID] = i
	return nil
}

func (s stockStore) Update(ctx context.Context, orgID, id uuid.UUID, p domain.InventoryPatch) (*domain.InventoryItem, error) {
	i, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	return i, nil
}

func (s stockStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*domain.InventoryItem, error) {
	i, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	delete(s.w.stock, id)
	return i, nil
}

type paymentStore struct{ w *world }

func (s paymentStore) List(_ context.Context, orgID uuid.UUID) ([]*domain.PaymentConfig, error) {
	out := []*domain.PaymentConfig{}
	for _, c := range s.w.payments {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func sameBranch(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s paymentStore) GetEffective(_ context.Context, orgID uuid.UUID, branchID *uuid.UUID) (*domain.PaymentConfig, error) {
	var fallback *domain.PaymentConfig
	for _, c := range s.w.payments {
		if c.OrganizationID != orgID {
			continue
		}
		if branchID != nil && sameBranch(c.BranchID, branchID) {
			return c, nil
		}
		if c.BranchID == nil {
			fallback = c
		}
	}
	if fallback == nil {
		return nil, domain.ErrPaymentConfigNotFound
	}
	return fallback, nil
}

func (s paymentStore) Upsert(_ context.Context, c *domain.PaymentConfig) (*domain.PaymentConfig, error) {
	for _, existing := range s.w.payments {
		if existing.OrganizationID == c.OrganizationID && sameBranch(existing.BranchID, c.BranchID) {
			existing.PromptPayID = c.PromptPayID
			existing.UpdatedAt = c.UpdatedAt
			return existing, nil
		}
	}
	s.w.payments[c.ID] = c
	return c, nil
}

func (s paymentStore) Delete(_ context.Context, orgID, id uuid.UUID) error {
	c, ok := s.w.payments[id]
	if !ok || c.OrganizationID != orgID {
		return domain.ErrPaymentConfigNotFound
	}
	delete(s.w.payments, id)
	return nil
}

type statsStore struct {
	w     *world
	calls int
}

func (s *statsStore) Stats(_ context.Context, orgID uuid.UUID, _ *uuid.UUID) (*domain.DashboardStats, error) {
	s.calls++
	stats := &domain.DashboardStats{Revenue: "0.00"}
	var revenue domain.Amount
	for _, o := range s.w.orders {
		if o.OrganizationID == orgID {
			total, _ := domain.ParseAmount(o.Total)
			revenue += total
			stats.TotalOrders++
		}
	}
	stats.Revenue = revenue.String()
	return stats, nil
}
