package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// OrganizationsRepository handles organization data persistence.
type OrganizationsRepository struct {
	db *sql.DB
}

// NewOrganizationsRepository creates a new organizations repository.
func NewOrganizationsRepository(db *sql.DB) *OrganizationsRepository {
	return &OrganizationsRepository{db: db}
}

const organizationColumns = `id, name, slug, logo, metadata, created_at, updated_at`

func scanOrganization(row interface{ Scan(...any) error }) (*domain.Organization, error) {
	var org domain.Organization
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Logo,
		&org.Metadata,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// CreateTx creates a new organization within a transaction.
func (r *OrganizationsRepository) CreateTx(ctx context.Context, q Querier, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, logo, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.Logo,
		org.Metadata,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if isUniqueViolation(err, "organizations_slug_key") {
		return domain.ErrSlugTaken
	}
	return err
}

// CreateWithOwner creates an organization and makes owner its first member
// in a single transaction.
func (r *OrganizationsRepository) CreateWithOwner(ctx context.Context, org *domain.Organization, owner *domain.Membership) error {
	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := r.CreateTx(ctx, tx, org); err != nil {
			return err
		}
		return insertMembership(ctx, tx, owner)
	})
}

// GetByID retrieves an organization by ID.
func (r *OrganizationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, id))
}

// ListByUser returns the organizations a user belongs to with the user's role,
// oldest membership first.
func (r *OrganizationsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrganizationWithRole, error) {
	query := `
		SELECT o.id, o.name, o.slug, o.logo, o.metadata, o.created_at, o.updated_at, m.role
		FROM organizations o
		INNER JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := []*domain.OrganizationWithRole{}
	for rows.Next() {
		var o domain.OrganizationWithRole
		err := rows.Scan(
			&o.ID, &o.Name, &o.Slug, &o.Logo, &o.Metadata, &o.CreatedAt, &o.UpdatedAt, &o.Role,
		)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, &o)
	}
	return orgs, rows.Err()
}

// Update updates an organization's name, logo and metadata.
func (r *OrganizationsRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, logo = $3, metadata = $4, updated_at = $5
		WHERE id = $1
	`
	org.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, org.ID, org.Name, org.Logo, org.Metadata, org.UpdatedAt)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrOrganizationNotFound)
}
