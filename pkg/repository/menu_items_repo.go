package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// MenuItemsRepository handles menu item persistence. Every query is scoped to an organization.
type MenuItemsRepository struct {
	db *sql.DB
}

// NewMenuItemsRepository creates a new menu items repository.
func NewMenuItemsRepository(db *sql.DB) *MenuItemsRepository {
	return &MenuItemsRepository{db: db}
}

const menuItemColumns = `
	id, organization_id, branch_id, sku, name, name_th, description, price::text,
	category, is_available, sort_order, created_at, updated_at
`

func scanMenuItem(row interface{ Scan(...any) error }) (*domain.MenuItem, error) {
	m := &domain.MenuItem{}
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.BranchID, &m.SKU, &m.Name, &m.NameTh, &m.Description, &m.Price,
		&m.Category, &m.IsAvailable, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the organization's menu items ordered by sort order then name.
// When branchID is set only items assigned to that branch are returned.
func (r *MenuItemsRepository) List(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]*domain.MenuItem, error) {
	query := `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		WHERE organization_id = $1 AND ($2::uuid IS NULL OR branch_id = $2)
		ORDER BY sort_order ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Get retrieves a menu item by ID within an organization.
func (r *MenuItemsRepository) Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 AND organization_id = $2`
	return scanMenuItem(r.db.QueryRowContext(ctx, query, id, organizationID))
}

// Create inserts a menu item.
func (r *MenuItemsRepository) Create(ctx context.Context, m *domain.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, organization_id, branch_id, sku, name, name_th, description, price,
		                        category, is_available, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.OrganizationID, m.BranchID, m.SKU, m.Name, m.NameTh, m.Description, m.Price,
		m.Category, m.IsAvailable, m.SortOrder, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// Update applies a patch to a menu item within an organization.
func (r *MenuItemsRepository) Update(ctx context.Context, organizationID, id uuid.UUID, p domain.MenuItemPatch) (*domain.MenuItem, error) {
	query := `
		UPDATE menu_items
		SET sku = COALESCE($3, sku),
		    name = COALESCE($4, name),
		    name_th = COALESCE($5, name_th),
		    description = COALESCE($6, description),
		    price = COALESCE($7::numeric, price),
		    category = COALESCE($8, category),
		    is_available = COALESCE($9, is_available),
		    sort_order = COALESCE($10, sort_order),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + menuItemColumns
	return scanMenuItem(r.db.QueryRowContext(ctx, query, id, organizationID,
		p.SKU, p.Name, p.NameTh, p.Description, p.Price, p.Category, p.IsAvailable, p.SortOrder,
	))
}

// Delete removes a menu item within an organization and returns it.
// Its platform mappings are removed by cascade.
func (r *MenuItemsRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuItem, error) {
	query := `
		DELETE FROM menu_items
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + menuItemColumns
	return scanMenuItem(r.db.QueryRowContext(ctx, query, id, organizationID))
}
