package restaurant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

type services struct {
	w         *world
	branches  *BranchService
	menu      *MenuService
	orders    *OrderService
	inventory *InventoryService
	payments  *PaymentService
	dashboard *DashboardService
	stats     *statsStore
}

func newServices() *services {
	w := newWorld()
	m := memberships{w}
	b := branchStore{w}
	stats := &statsStore{w: w}
	return &services{
		w:         w,
		branches:  NewBranchService(m, b),
		menu:      NewMenuService(m, b, itemStore{w}, mappingStore{w}),
		orders:    NewOrderService(m, b, orderStore{w}, itemStore{w}),
		inventory: NewInventoryService(m, b, stockStore{w}),
		payments:  NewPaymentService(m, b, paymentStore{w}),
		dashboard: NewDashboardService(m, b, stats),
		stats:     stats,
	}
}

func strPtr(s string) *string { return &s }

func TestBranchService_TenantIsolation(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	orgA, orgB := uuid.New(), uuid.New()
	ownerA := s.w.join(orgA, domain.RoleOwner)
	ownerB := s.w.join(orgB, domain.RoleOwner)

	branch, err := s.branches.Create(ctx, ownerA, "Siam Square", strPtr("Rama I Rd"))
	require.NoError(t, err)
	assert.Equal(t, orgA, branch.OrganizationID)
	assert.True(t, branch.IsActive)

	_, err = s.branches.Get(ctx, ownerB, branch.ID)
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	_, err = s.branches.Update(ctx, ownerB, branch.ID, domain.BranchPatch{Name: strPtr("Stolen")})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	list, err := s.branches.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, list)

	inactive := false
	_, err = s.branches.Update(ctx, ownerA, branch.ID, domain.BranchPatch{IsActive: &inactive})
	require.NoError(t, err)
	list, err = s.branches.List(ctx, ownerA)
	require.NoError(t, err)
	assert.Empty(t, list, "inactive branches are not listed")
}

func TestBranchService_RequiresMembershipAndRole(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	member := s.w.join(orgID, domain.RoleMember)

	_, err := s.branches.Create(ctx, member, "Siam Square", nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// A stale active organization the user no longer belongs to.
	stale := uuid.New()
	_, err = s.branches.List(ctx, tenancy.Caller{UserID: member.UserID, ActiveOrganizationID: &stale})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// No active organization falls back to the user's membership.
	list, err := s.branches.List(ctx, tenancy.Caller{UserID: member.UserID})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.branches.List(ctx, tenancy.Caller{UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNoOrganization)
}

func TestMenuService_UpsertMapping(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	admin := s.w.join(orgID, domain.RoleAdmin)

	item, err := s.menu.CreateItem(ctx, admin, MenuItemInput{SKU: "PT-01", Name: "Pad Thai", Price: "89"})
	require.NoError(t, err)
	assert.Equal(t, "89.00", item.Price)

	first, err := s.menu.UpsertMapping(ctx, admin, MappingInput{
		MenuItemID: item.ID, Platform: domain.PlatformGrab, ExternalID: "G-1",
	})
	require.NoError(t, err)

	second, err := s.menu.UpsertMapping(ctx, admin, MappingInput{
		MenuItemID: item.ID, Platform: domain.PlatformGrab, ExternalID: "G-2", ExternalName: strPtr("Pad Thai (L)"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	mappings, err := s.menu.ListMappings(ctx, admin, &item.ID)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "G-2", mappings[0].ExternalID)

	_, err = s.menu.UpsertMapping(ctx, admin, MappingInput{
		MenuItemID: item.ID, Platform: domain.PlatformWongnai, ExternalID: "W-1",
	})
	require.NoError(t, err)
	mappings, err = s.menu.ListMappings(ctx, admin, &item.ID)
	require.NoError(t, err)
	assert.Len(t, mappings, 2)
}

func TestMenuService_UpsertMapping_Rejects(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgA, orgB := uuid.New(), uuid.New()
	adminA := s.w.join(orgA, domain.RoleAdmin)
	adminB := s.w.join(orgB, domain.RoleAdmin)

	item, err := s.menu.CreateItem(ctx, adminA, MenuItemInput{Name: "Tom Yum", Price: "120.50"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  tenancy.Caller
		input   MappingInput
		wantErr error
	}{
		{"other tenant's item", adminB, MappingInput{MenuItemID: item.ID, Platform: domain.PlatformGrab, ExternalID: "X"}, domain.ErrMenuItemNotFound},
		{"unknown platform", adminA, MappingInput{MenuItemID: item.ID, Platform: "foodpanda", ExternalID: "X"}, domain.ErrInvalidPlatform},
		{"blank external id", adminA, MappingInput{MenuItemID: item.ID, Platform: domain.PlatformGrab, ExternalID: " "}, domain.ErrMissingExternalID},
		{"plain member", s.w.join(orgA, domain.RoleMember), MappingInput{MenuItemID: item.ID, Platform: domain.PlatformGrab, ExternalID: "X"}, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.menu.UpsertMapping(ctx, tt.caller, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMenuService_Items(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	owner := s.w.join(orgID, domain.RoleOwner)
	other := s.w.join(uuid.New(), domain.RoleOwner)

	_, err := s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "Pad Thai", Price: "1.999"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	foreignBranch := uuid.New()
	_, err = s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "Pad Thai", Price: "89", BranchID: &foreignBranch})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	b, err := s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "B dish", Price: "10", SortOrder: 1})
	require.NoError(t, err)
	_, err = s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "A dish", Price: "10", SortOrder: 1})
	require.NoError(t, err)
	_, err = s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "Z first", Price: "10", SortOrder: 0})
	require.NoError(t, err)

	items, err := s.menu.ListItems(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Z first", "A dish", "B dish"}, []string{items[0].Name, items[1].Name, items[2].Name})

	updated, err := s.menu.UpdateItem(ctx, owner, b.ID, domain.MenuItemPatch{Price: strPtr("12.5")})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Price)

	_, err = s.menu.DeleteItem(ctx, other, b.ID)
	assert.ErrorIs(t, err, domain.ErrMenuItemNotFound)
	_, err = s.menu.DeleteItem(ctx, owner, b.ID)
	require.NoError(t, err)
	_, err = s.menu.GetItem(ctx, owner, b.ID)
	assert.ErrorIs(t, err, domain.ErrMenuItemNotFound)
}

func TestOrderService_CreateSnapshotsItems(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	owner := s.w.join(orgID, domain.RoleOwner)
	cashier := s.w.join(orgID, domain.RoleMember)

	item, err := s.menu.CreateItem(ctx, owner, MenuItemInput{Name: "Pad Thai", Price: "89"})
	require.NoError(t, err)

	order, err := s.orders.Create(ctx, cashier, OrderInput{
		Items: []domain.OrderItem{
			{MenuItemID: &item.ID, Quantity: 2},
			{Name: "Thai Iced Tea", Price: "45.5", Quantity: 1},
		},
		Discount: "10",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSourcePOS, order.Source)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "Pad Thai", order.Items[0].Name)
	assert.Equal(t, "89.00", order.Items[0].Price)
	assert.Equal(t, "223.50", order.Subtotal)
	assert.Equal(t, "10.00", order.Discount)
	assert.Equal(t, "213.50", order.Total)

	// Later menu changes do not touch the stored order.
	_, err = s.menu.UpdateItem(ctx, owner, item.ID, domain.MenuItemPatch{Price: strPtr("99"), Name: strPtr("Pad Thai Deluxe")})
	require.NoError(t, err)
	stored, err := s.orders.Get(ctx, cashier, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", stored.Items[0].Name)
	assert.Equal(t, "89.00", stored.Items[0].Price)
}

func TestOrderService_CreateRejects(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	cashier := s.w.join(orgID, domain.RoleMember)
	foreignItem := uuid.New()

	tests := []struct {
		name    string
		input   OrderInput
		wantErr error
	}{
		{"no items", OrderInput{}, domain.ErrInvalidQuantity},
		{"zero quantity", OrderInput{Items: []domain.OrderItem{{Name: "Tea", Price: "1", Quantity: 0}}}, domain.ErrInvalidQuantity},
		{"unknown menu item", OrderInput{Items: []domain.OrderItem{{MenuItemID: &foreignItem, Quantity: 1}}}, domain.ErrMenuItemNotFound},
		{"discount above subtotal", OrderInput{Items: []domain.OrderItem{{Name: "Tea", Price: "10", Quantity: 1}}, Discount: "11"}, domain.ErrInvalidAmount},
		{"unnamed custom item", OrderInput{Items: []domain.OrderItem{{Price: "10", Quantity: 1}}}, domain.ErrInvalidName},
		{"price above column limit", OrderInput{Items: []domain.OrderItem{{Name: "Banquet", Price: "100000000", Quantity: 1}}}, domain.ErrInvalidAmount},
		{"total above column limit", OrderInput{Items: []domain.OrderItem{{Name: "Banquet", Price: "99999999.99", Quantity: 1000}}}, domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.orders.Create(ctx, cashier, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	cashier := s.w.join(orgID, domain.RoleMember)

	order, err := s.orders.Create(ctx, cashier, OrderInput{
		Source: domain.OrderSourceGrab,
		Items:  []domain.OrderItem{{Name: "Pad Thai", Price: "89", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = s.orders.UpdateStatus(ctx, cashier, order.ID, domain.OrderStatusReady)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderTransition)

	accepted, err := s.orders.UpdateStatus(ctx, cashier, order.ID, domain.OrderStatusAccepted)
	require.NoError(t, err)
	assert.NotNil(t, accepted.AcceptedAt)

	cancelled, err := s.orders.UpdateStatus(ctx, cashier, order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	_, err = s.orders.UpdateStatus(ctx, cashier, order.ID, domain.OrderStatusPreparing)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderTransition)
}

func TestDashboardService_GetStats(t *testing.T) {
	s := newServices()
	ctx := context.Background()

	t.Run("no organization", func(t *testing.T) {
		stats, err := s.dashboard.GetStats(ctx, tenancy.Caller{UserID: uuid.New()}, nil)
		require.NoError(t, err)
		assert.Equal(t, &domain.DashboardStats{Revenue: "0"}, stats)
		assert.Zero(t, s.stats.calls)
	})

	t.Run("scoped to tenant", func(t *testing.T) {
		orgID := uuid.New()
		cashier := s.w.join(orgID, domain.RoleMember)
		_, err := s.orders.Create(ctx, cashier, OrderInput{
			Items: []domain.OrderItem{{Name: "Pad Thai", Price: "89", Quantity: 2}},
		})
		require.NoError(t, err)

		stats, err := s.dashboard.GetStats(ctx, cashier, nil)
		require.NoError(t, err)
		assert.Equal(t, "178.00", stats.Revenue)
		assert.Equal(t, 1, stats.TotalOrders)

		other := s.w.join(uuid.New(), domain.RoleOwner)
		stats, err = s.dashboard.GetStats(ctx, other, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalOrders)
	})
}

func TestInventoryService(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	member := s.w.join(orgID, domain.RoleMember)

	item, err := s.inventory.Create(ctx, member, InventoryInput{Name: "Rice noodles", Quantity: "4.5", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLowStockThreshold, item.LowStockThreshold)
	assert.True(t, item.IsLowStock())

	updated, err := s.inventory.Update(ctx, member, item.ID, domain.InventoryPatch{Quantity: strPtr("25")})
	require.NoError(t, err)
	assert.False(t, updated.IsLowStock())

	_, err = s.inventory.Delete(ctx, member, item.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPaymentService_EffectiveFallsBackToDefault(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	orgID := uuid.New()
	owner := s.w.join(orgID, domain.RoleOwner)

	branch, err := s.branches.Create(ctx, owner, "Siam Square", nil)
	require.NoError(t, err)

	_, err = s.payments.Effective(ctx, owner, &branch.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentConfigNotFound)

	def, err := s.payments.Upsert(ctx, owner, PaymentConfigInput{PromptPayID: strPtr("0812345678")})
	require.NoError(t, err)

	got, err := s.payments.Effective(ctx, owner, &branch.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, got.ID)

	branchCfg, err := s.payments.Upsert(ctx, owner, PaymentConfigInput{BranchID: &branch.ID, PromptPayID: strPtr("0899999999")})
	require.NoError(t, err)
	got, err = s.payments.Effective(ctx, owner, &branch.ID)
	require.NoError(t, err)
	assert.Equal(t, branchCfg.ID, got.ID)

	again, err := s.payments.Upsert(ctx, owner, PaymentConfigInput{PromptPayID: strPtr("0800000000")})
	require.NoError(t, err)
	assert.Equal(t, def.ID, again.ID, "one default per organization")

	list, err := s.payments.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	member := s.w.join(orgID, domain.RoleMember)
	assert.ErrorIs(t, s.payments.Delete(ctx, member, def.ID), domain.ErrForbidden)
	require.NoError(t, s.payments.Delete(ctx, owner, def.ID))
}
