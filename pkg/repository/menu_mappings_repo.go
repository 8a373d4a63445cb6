package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// MenuMappingsRepository handles platform mapping persistence. Every query is scoped to an organization.
type MenuMappingsRepository struct {
	db *sql.DB
}

// NewMenuMappingsRepository creates a new menu mappings repository.
func NewMenuMappingsRepository(db *sql.DB) *MenuMappingsRepository {
	return &MenuMappingsRepository{db: db}
}

const menuMappingColumns = `
	id, organization_id, menu_item_id, platform, external_id, external_name, created_at, updated_at
`

func scanMenuMapping(row interface{ Scan(...any) error }) (*domain.MenuMapping, error) {
	m := &domain.MenuMapping{}
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.MenuItemID, &m.Platform, &m.ExternalID, &m.ExternalName,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuMappingNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the organization's mappings, optionally for a single menu item.
func (r *MenuMappingsRepository) List(ctx context.Context, organizationID uuid.UUID, menuItemID *uuid.UUID) ([]*domain.MenuMapping, error) {
	query := `
		SELECT ` + menuMappingColumns + `
		FROM menu_mappings
		WHERE organization_id = $1 AND ($2::uuid IS NULL OR menu_item_id = $2)
		ORDER BY menu_item_id, platform
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := []*domain.MenuMapping{}
	for rows.Next() {
		m, err := scanMenuMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// Upsert creates the mapping for (menu item, platform) or updates the
// existing one's external id and name.
func (r *MenuMappingsRepository) Upsert(ctx context.Context, m *domain.MenuMapping) (*domain.MenuMapping, error) {
	query := `
		INSERT INTO menu_mappings (id, organization_id, menu_item_id, platform, external_id, external_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (menu_item_id, platform) DO UPDATE
		SET external_id = EXCLUDED.external_id,
		    external_name = EXCLUDED.external_name,
		    updated_at = EXCLUDED.updated_at
		WHERE menu_mappings.organization_id = EXCLUDED.organization_id
		RETURNING ` + menuMappingColumns
	return scanMenuMapping(r.db.QueryRowContext(ctx, query,
		m.ID, m.OrganizationID, m.MenuItemID, m.Platform, m.ExternalID, m.ExternalName, m.UpdatedAt,
	))
}

// Delete removes a mapping within an organization and returns it.
func (r *MenuMappingsRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (*domain.MenuMapping, error) {
	query := `
		DELETE FROM menu_mappings
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + menuMappingColumns
	return scanMenuMapping(r.db.QueryRowContext(ctx, query, id, organizationID))
}
