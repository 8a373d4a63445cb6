// Package seed loads the "Golden Pad Thai" demo tenant through the same
// services the API uses, so seeded data passes every tenant check.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/organization"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// ErrAlreadySeeded is returned when the demo organization exists.
var ErrAlreadySeeded = errors.New("demo data already seeded")

type Accounts interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (uuid.UUID, error)
}

type Organizations interface {
	Create(ctx context.Context, caller tenancy.Caller, in organization.CreateInput) (*domain.OrganizationWithRole, error)
}

type Branches interface {
	Create(ctx context.Context, caller tenancy.Caller, name string, address *string) (*domain.Branch, error)
}

type Menu interface {
	CreateItem(ctx context.Context, caller tenancy.Caller, in restaurant.MenuItemInput) (*domain.MenuItem, error)
	UpsertMapping(ctx context.Context, caller tenancy.Caller, in restaurant.MappingInput) (*domain.MenuMapping, error)
}

type Orders interface {
	Create(ctx context.Context, caller tenancy.Caller, in restaurant.OrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller tenancy.Caller, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
}

type Inventory interface {
	Create(ctx context.Context, caller tenancy.Caller, in restaurant.InventoryInput) (*domain.InventoryItem, error)
}

type Payments interface {
	Upsert(ctx context.Context, caller tenancy.Caller, in restaurant.PaymentConfigInput) (*domain.PaymentConfig, error)
}

// Deps are the services the seeder writes through.
type Deps struct {
	Accounts      Accounts
	Organizations Organizations
	Branches      Branches
	Menu          Menu
	Orders        Orders
	Inventory     Inventory
	Payments      Payments
	Logger        *slog.Logger
}

// Owner credentials for the demo tenant.
type Owner struct {
	Email    string
	Password string
	Name     string
}

// DefaultOwner is used when the seed command gets no flags.
var DefaultOwner = Owner{
	Email:    "demo@goldenpadthai.com",
	Password: "golden-pad-thai",
	Name:     "Demo Owner",
}

// Summary counts what Run created.
type Summary struct {
	OwnerID        uuid.UUID
	OrganizationID uuid.UUID
	Branches       int
	MenuItems      int
	Mappings       int
	Orders         int
	Inventory      int
	PaymentConfigs int
}

// Run creates the demo owner (or signs in as an existing one) and the demo
// organization with its branches, menu, mappings, orders, inventory and
// payment settings.
func Run(ctx context.Context, d Deps, owner Owner) (*Summary, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := ensureOwner(ctx, d.Accounts, owner)
	if err != nil {
		return nil, err
	}

	org, err := d.Organizations.Create(ctx, tenancy.Caller{UserID: userID, Email: owner.Email}, organization.CreateInput{
		Name:        demoOrganization.Name,
		Slug:        demoOrganization.Slug,
		Logo:        demoOrganization.Logo,
		Description: demoOrganization.Description,
	})
	if errors.Is(err, domain.ErrSlugTaken) {
		return nil, ErrAlreadySeeded
	}
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	logger.Info("created organization", "organization_id", org.ID, "name", org.Name)

	orgID := org.ID
	caller := tenancy.Caller{UserID: userID, Email: owner.Email, ActiveOrganizationID: &orgID}
	sum := &Summary{OwnerID: userID, OrganizationID: orgID}

	branchIDs := make([]uuid.UUID, 0, len(demoBranches))
	for _, b := range demoBranches {
		branch, err := d.Branches.Create(ctx, caller, b.Name, &b.Address)
		if err != nil {
			return nil, fmt.Errorf("create branch %q: %w", b.Name, err)
		}
		branchIDs = append(branchIDs, branch.ID)
	}
	sum.Branches = len(branchIDs)

	itemIDs := make(map[string]uuid.UUID, len(demoMenu))
	for _, in := range demoMenu {
		item, err := d.Menu.CreateItem(ctx, caller, in)
		if err != nil {
			return nil, fmt.Errorf("create menu item %q: %w", in.SKU, err)
		}
		itemIDs[in.SKU] = item.ID
	}
	sum.MenuItems = len(itemIDs)

	for _, m := range demoMappings {
		name := m.ExternalName
		if _, err := d.Menu.UpsertMapping(ctx, caller, restaurant.MappingInput{
			MenuItemID:   itemIDs[m.SKU],
			Platform:     m.Platform,
			ExternalID:   m.ExternalID,
			ExternalName: &name,
		}); err != nil {
			return nil, fmt.Errorf("map %s on %s: %w", m.SKU, m.Platform, err)
		}
		sum.Mappings++
	}

	for _, o := range demoOrders {
		if err := createOrder(ctx, d.Orders, caller, o, branchIDs, itemIDs); err != nil {
			return nil, err
		}
		sum.Orders++
	}

	for _, inv := range demoInventory {
		in := inv.InventoryInput
		branchID := branchIDs[inv.Branch]
		in.BranchID = &branchID
		if _, err := d.Inventory.Create(ctx, caller, in); err != nil {
			return nil, fmt.Errorf("create inventory %q: %w", in.Name, err)
		}
		sum.Inventory++
	}

	for _, p := range demoPayments {
		in := p.PaymentConfigInput
		branchID := branchIDs[p.Branch]
		in.BranchID = &branchID
		if _, err := d.Payments.Upsert(ctx, caller, in); err != nil {
			return nil, fmt.Errorf("create payment config: %w", err)
		}
		sum.PaymentConfigs++
	}

	logger.Info("seed completed",
		"organization_id", orgID,
		"branches", sum.Branches,
		"menu_items", sum.MenuItems,
		"mappings", sum.Mappings,
		"orders", sum.Orders,
		"inventory", sum.Inventory,
		"payment_configs", sum.PaymentConfigs,
	)
	return sum, nil
}

func ensureOwner(ctx context.Context, accounts Accounts, owner Owner) (uuid.UUID, error) {
	user, err := accounts.Register(ctx, owner.Email, owner.Password, owner.Name)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		return uuid.Nil, fmt.Errorf("register owner: %w", err)
	}
	id, err := accounts.Authenticate(ctx, owner.Email, owner.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("sign in as existing owner: %w", err)
	}
	return id, nil
}

// createOrder places the order and walks it forward to its demo status.
func createOrder(ctx context.Context, orders Orders, caller tenancy.Caller, o demoOrder, branchIDs []uuid.UUID, itemIDs map[string]uuid.UUID) error {
	in := o.OrderInput
	branchID := branchIDs[o.Branch]
	in.BranchID = &branchID
	in.Items = make([]domain.OrderItem, len(o.Lines))
	for i, line := range o.Lines {
		id := itemIDs[line.SKU]
		in.Items[i] = domain.OrderItem{MenuItemID: &id, Quantity: line.Quantity}
	}

	order, err := orders.Create(ctx, caller, in)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	for _, next := range o.Path {
		if _, err := orders.UpdateStatus(ctx, caller, order.ID, next); err != nil {
			return fmt.Errorf("move order %s to %s: %w", order.ID, next, err)
		}
	}
	return nil
}
