package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/organization"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// fakeServices records every call and checks the caller is scoped to the demo organization.
type fakeServices struct {
	t          *testing.T
	userID     uuid.UUID
	registered bool
	slugTaken  bool
	orgID      uuid.UUID

	orders   map[uuid.UUID]*domain.Order
	mappings []restaurant.MappingInput
	branches []uuid.UUID
	items    map[uuid.UUID]restaurant.MenuItemInput
	stock    []restaurant.InventoryInput
	payments []restaurant.PaymentConfigInput
}

func newFakeServices(t *testing.T) *fakeServices {
	return &fakeServices{
		t:      t,
		userID: uuid.New(),
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID]restaurant.MenuItemInput),
	}
}

func (f *fakeServices) scoped(caller tenancy.Caller) {
	f.t.Helper()
	require.NotNil(f.t, caller.ActiveOrganizationID)
	assert.Equal(f.t, f.orgID, *caller.ActiveOrganizationID)
	assert.Equal(f.t, f.userID, caller.UserID)
}

func (f *fakeServices) Register(_ context.Context, email, _, _ string) (*domain.User, error) {
	if f.registered {
		return nil, domain.ErrUserAlreadyExists
	}
	return &domain.User{ID: f.userID, Email: email}, nil
}

func (f *fakeServices) Authenticate(_ context.Context, _, password string) (uuid.UUID, error) {
	if password != DefaultOwner.Password {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	return f.userID, nil
}

func (f *fakeServices) Create(_ context.Context, caller tenancy.Caller, in organization.CreateInput) (*domain.OrganizationWithRole, error) {
	if f.slugTaken {
		return nil, domain.ErrSlugTaken
	}
	assert.Equal(f.t, f.userID, caller.UserID)
	assert.Equal(f.t, "golden-pad-thai", in.Slug)
	f.orgID = uuid.New()
	return &domain.OrganizationWithRole{
		Organization: domain.Organization{ID: f.orgID, Name: in.Name, Slug: in.Slug},
		Role:         domain.RoleOwner,
	}, nil
}

type branchCreator struct{ *fakeServices }

func (b branchCreator) Create(_ context.Context, caller tenancy.Caller, name string, _ *string) (*domain.Branch, error) {
	b.scoped(caller)
	id := uuid.New()
	b.branches = append(b.branches, id)
	return &domain.Branch{ID: id, Name: name}, nil
}

func (f *fakeServices) CreateItem(_ context.Context, caller tenancy.Caller, in restaurant.MenuItemInput) (*domain.MenuItem, error) {
	f.scoped(caller)
	id := uuid.New()
	f.items[id] = in
	return &domain.MenuItem{ID: id, SKU: in.SKU, Name: in.Name, Price: in.Price}, nil
}

func (f *fakeServices) UpsertMapping(_ context.Context, caller tenancy.Caller, in restaurant.MappingInput) (*domain.MenuMapping, error) {
	f.scoped(caller)
	if _, ok := f.items[in.MenuItemID]; !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	f.mappings = append(f.mappings, in)
	return &domain.MenuMapping{ID: uuid.New(), MenuItemID: in.MenuItemID, Platform: in.Platform}, nil
}

type orderCreator struct{ *fakeServices }

func (o orderCreator) Create(_ context.Context, caller tenancy.Caller, in restaurant.OrderInput) (*domain.Order, error) {
	o.scoped(caller)
	for _, item := range in.Items {
		if item.MenuItemID == nil {
			return nil, domain.ErrMenuItemNotFound
		}
		if _, ok := o.items[*item.MenuItemID]; !ok {
			return nil, domain.ErrMenuItemNotFound
		}
	}
	order := &domain.Order{ID: uuid.New(), BranchID: in.BranchID, Source: in.Source, Status: domain.OrderStatusPending}
	o.orders[order.ID] = order
	return order, nil
}

func (f *fakeServices) UpdateStatus(_ context.Context, caller tenancy.Caller, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	f.scoped(caller)
	order := f.orders[id]
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidOrderTransition
	}
	order.Status = next
	return order, nil
}

type inventoryCreator struct{ *fakeServices }

func (i inventoryCreator) Create(_ context.Context, caller tenancy.Caller, in restaurant.InventoryInput) (*domain.InventoryItem, error) {
	i.scoped(caller)
	require.NotNil(i.t, in.BranchID)
	i.stock = append(i.stock, in)
	return &domain.InventoryItem{ID: uuid.New(), Name: in.Name}, nil
}

func (f *fakeServices) Upsert(_ context.Context, caller tenancy.Caller, in restaurant.PaymentConfigInput) (*domain.PaymentConfig, error) {
	f.scoped(caller)
	f.payments = append(f.payments, in)
	return &domain.PaymentConfig{ID: uuid.New(), BranchID: in.BranchID}, nil
}

func depsFor(f *fakeServices) Deps {
	return Deps{
		Accounts:      f,
		Organizations: f,
		Branches:      branchCreator{f},
		Menu:          f,
		Orders:        orderCreator{f},
		Inventory:     inventoryCreator{f},
		Payments:      f,
	}
}

func TestRun(t *testing.T) {
	f := newFakeServices(t)

	sum, err := Run(context.Background(), depsFor(f), DefaultOwner)
	require.NoError(t, err)

	assert.Equal(t, f.userID, sum.OwnerID)
	assert.Equal(t, f.orgID, sum.OrganizationID)
	assert.Equal(t, 3, sum.Branches)
	assert.Equal(t, 10, sum.MenuItems)
	assert.Equal(t, 9, sum.Mappings)
	assert.Equal(t, 4, sum.Orders)
	assert.Equal(t, 6, sum.Inventory)
	assert.Equal(t, 2, sum.PaymentConfigs)

	statuses := map[domain.OrderStatus]int{}
	for _, o := range f.orders {
		statuses[o.Status]++
	}
	assert.Equal(t, map[domain.OrderStatus]int{
		domain.OrderStatusCompleted: 1,
		domain.OrderStatusPreparing: 1,
		domain.OrderStatusPending:   1,
		domain.OrderStatusAccepted:  1,
	}, statuses)

	for _, p := range f.payments {
		require.NotNil(t, p.BranchID)
		assert.Contains(t, f.branches, *p.BranchID)
	}
}

func TestRun_ExistingOwner(t *testing.T) {
	f := newFakeServices(t)
	f.registered = true

	sum, err := Run(context.Background(), depsFor(f), DefaultOwner)
	require.NoError(t, err)
	assert.Equal(t, f.userID, sum.OwnerID)

	f = newFakeServices(t)
	f.registered = true
	_, err = Run(context.Background(), depsFor(f), Owner{Email: DefaultOwner.Email, Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRun_AlreadySeeded(t *testing.T) {
	f := newFakeServices(t)
	f.slugTaken = true

	_, err := Run(context.Background(), depsFor(f), DefaultOwner)
	assert.True(t, errors.Is(err, ErrAlreadySeeded))
	assert.Empty(t, f.branches)
}
