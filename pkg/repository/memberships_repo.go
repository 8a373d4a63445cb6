package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// MembershipsRepository handles membership data persistence.
type MembershipsRepository struct {
	db *sql.DB
}

// NewMembershipsRepository creates a new memberships repository.
func NewMembershipsRepository(db *sql.DB) *MembershipsRepository {
	return &MembershipsRepository{db: db}
}

const membershipColumns = `id, user_id, organization_id, role, created_at, updated_at`

func scanMembership(row interface{ Scan(...any) error }) (*domain.Membership, error) {
	var membership domain.Membership
	err := row.Scan(
		&membership.ID,
		&membership.UserID,
		&membership.OrganizationID,
		&membership.Role,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func insertMembership(ctx context.Context, q Querier, membership *domain.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, organization_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		membership.ID,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.CreatedAt,
		membership.UpdatedAt,
	)
	if isUniqueViolation(err, "memberships_user_organization_key") {
		return domain.ErrAlreadyMember
	}
	return err
}

// CreateTx creates a new membership within a transaction.
func (r *MembershipsRepository) CreateTx(ctx context.Context, q Querier, membership *domain.Membership) error {
	return insertMembership(ctx, q, membership)
}

// GetByUserAndOrganization retrieves a user's membership in an organization.
func (r *MembershipsRepository) GetByUserAndOrganization(ctx context.Context, userID, organizationID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE user_id = $1 AND organization_id = $2
	`
	return scanMembership(r.db.QueryRowContext(ctx, query, userID, organizationID))
}

// GetEarliestByUser retrieves the user's oldest membership. Ties on
// created_at are broken by id so the result is deterministic.
func (r *MembershipsRepository) GetEarliestByUser(ctx context.Context, userID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return scanMembership(r.db.QueryRowContext(ctx, query, userID))
}

// ExistsByEmail reports whether a user with the given email belongs to the organization.
func (r *MembershipsRepository) ExistsByEmail(ctx context.Context, organizationID uuid.UUID, email string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM memberships m
			INNER JOIN users u ON u.id = m.user_id
			WHERE m.organization_id = $1 AND u.email = $2 AND u.deleted_at IS NULL
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, organizationID, email).Scan(&exists)
	return exists, err
}

// ListByOrganization retrieves all members of an organization with their profiles.
func (r *MembershipsRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.MemberWithUser, error) {
	query := `
		SELECT m.id, m.user_id, m.organization_id, m.role, m.created_at, m.updated_at,
		       u.email, u.name, u.image
		FROM memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.MemberWithUser{}
	for rows.Next() {
		var m domain.MemberWithUser
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.OrganizationID,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.Email,
			&m.Name,
			&m.Image,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
