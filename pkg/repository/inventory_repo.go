package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// InventoryRepository handles inventory persistence. Every query is scoped to an organization.
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `
	id, organization_id, branch_id, name, name_th, sku, quantity::text, unit,
	low_stock_threshold::text, is_active, created_at, updated_at
`

func scanInventoryItem(row interface{ Scan(...any) error }) (*domain.InventoryItem, error) {
	i := &domain.InventoryItem{}
	err := row.Scan(
		&i.ID, &i.OrganizationID, &i.BranchID, &i.Name, &i.NameTh, &i.SKU, &i.Quantity, &i.Unit,
		&i.LowStockThreshold, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInventoryItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// List returns the organization's inventory ordered by name, optionally for one branch.
func (r *InventoryRepository) List(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) ([]*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE organization_id = $1 AND ($2::uuid IS NULL OR branch_id = $2)
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domain.InventoryItem{}
	for rows.Next() {
		i, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Get retrieves an inventory item by ID within an organization.
func (r *InventoryRepository) Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 AND organization_id = $2`
	return scanInventoryItem(r.db.QueryRowContext(ctx, query, id, organizationID))
}

// Create inserts an inventory item.
func (r *InventoryRepository) Create(ctx context.Context, i *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, organization_id, branch_id, name, name_th, sku, quantity, unit,
		                             low_stock_threshold, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.OrganizationID, i.BranchID, i.Name, i.NameTh, i.SKU, i.Quantity, i.Unit,
		i.LowStockThreshold, i.IsActive, i.CreatedAt, i.UpdatedAt,
	)
	return err
}

// Update applies a patch to an inventory item within an organization.
func (r *InventoryRepository) Update(ctx context.Context, organizationID, id uuid.UUID, p domain.InventoryPatch) (*domain.InventoryItem, error) {
	query := `
		UPDATE inventory_items
		SET name = COALESCE($3, name),
		    name_th = COALESCE($4, name_th),
		    sku = COALESCE($5, sku),
		    quantity = COALESCE($6::numeric, quantity),
		    unit = COALESCE($7, unit),
		    low_stock_threshold = COALESCE($8::numeric, low_stock_threshold),
		    is_active = COALESCE($9, is_active),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + inventoryColumns
	return scanInventoryItem(r.db.QueryRowContext(ctx, query, id, organizationID,
		p.Name, p.NameTh, p.SKU, p.Quantity, p.Unit, p.LowStockThreshold, p.IsActive,
	))
}

// Delete removes an inventory item within an organization and returns it.
func (r *InventoryRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `
		DELETE FROM inventory_items
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + inventoryColumns
	return scanInventoryItem(r.db.QueryRowContext(ctx, query, id, organizationID))
}
