package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// BranchesRepository handles branch persistence. Every query is scoped to an organization.
type BranchesRepository struct {
	db *sql.DB
}

// NewBranchesRepository creates a new branches repository.
func NewBranchesRepository(db *sql.DB) *BranchesRepository {
	return &BranchesRepository{db: db}
}

const branchColumns = `id, organization_id, name, address, is_active, created_at, updated_at`

func scanBranch(row interface{ Scan(...any) error }) (*domain.Branch, error) {
	b := &domain.Branch{}
	err := row.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.Address, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the organization's active branches ordered by name.
func (r *BranchesRepository) List(ctx context.Context, organizationID uuid.UUID) ([]*domain.Branch, error) {
	query := `
		SELECT ` + branchColumns + `
		FROM branches
		WHERE organization_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []*domain.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Get retrieves a branch by ID within an organization.
func (r *BranchesRepository) Get(ctx context.Context, organizationID, id uuid.UUID) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1 AND organization_id = $2`
	return scanBranch(r.db.QueryRowContext(ctx, query, id, organizationID))
}

// Create inserts a branch.
func (r *BranchesRepository) Create(ctx context.Context, b *domain.Branch) error {
	query := `
		INSERT INTO branches (id, organization_id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.OrganizationID, b.Name, b.Address, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// Update applies a patch to a branch within an organization.
func (r *BranchesRepository) Update(ctx context.Context, organizationID, id uuid.UUID, p domain.BranchPatch) (*domain.Branch, error) {
	query := `
		UPDATE branches
		SET name = COALESCE($3, name),
		    address = COALESCE($4, address),
		    is_active = COALESCE($5, is_active),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + branchColumns
	return scanBranch(r.db.QueryRowContext(ctx, query, id, organizationID, p.Name, p.Address, p.IsActive))
}
