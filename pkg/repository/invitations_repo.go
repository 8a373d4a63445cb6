package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// InvitationsRepository handles invitation persistence.
type InvitationsRepository struct {
	db *sql.DB
}

// NewInvitationsRepository creates a new invitations repository.
func NewInvitationsRepository(db *sql.DB) *InvitationsRepository {
	return &InvitationsRepository{db: db}
}

const invitationColumns = `
	i.id, i.organization_id, i.inviter_id, i.email, i.role, i.status, i.expires_at,
	i.accepted_at, i.rejected_at, i.created_at, i.updated_at
`

func invitationDest(inv *domain.Invitation) []any {
	return []any{
		&inv.ID, &inv.OrganizationID, &inv.InviterID, &inv.Email, &inv.Role, &inv.Status,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.RejectedAt, &inv.CreatedAt, &inv.UpdatedAt,
	}
}

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	err := row.Scan(invitationDest(inv)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create inserts a pending invitation. Only one pending invitation may exist
// per (organization, email); a second one returns domain.ErrInvitationPending.
func (r *InvitationsRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (id, organization_id, inviter_id, email, role, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.OrganizationID, inv.InviterID, inv.Email, inv.Role, inv.Status,
		inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if isUniqueViolation(err, "invitations_pending_email_key") {
		return domain.ErrInvitationPending
	}
	return err
}

// GetByID retrieves an invitation by ID.
func (r *InvitationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations i WHERE i.id = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, id))
}

// GetPendingByEmail retrieves the pending invitation for an email in an organization.
func (r *InvitationsRepository) GetPendingByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		WHERE i.organization_id = $1 AND i.email = $2 AND i.status = 'pending'
	`
	return scanInvitation(r.db.QueryRowContext(ctx, query, organizationID, email))
}

// RefreshPending re-sends a pending invitation: the role, inviter and expiry are
// replaced. Returns domain.ErrInvitationNotPending if it was resolved meanwhile.
func (r *InvitationsRepository) RefreshPending(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE invitations
		SET role = $2, inviter_id = $3, expires_at = $4, updated_at = $5
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, inv.ID, inv.Role, inv.InviterID, inv.ExpiresAt, inv.UpdatedAt)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrInvitationNotPending)
}

// GetDetails retrieves an invitation with its organization and inviter names.
func (r *InvitationsRepository) GetDetails(ctx context.Context, id uuid.UUID) (*domain.InvitationDetails, error) {
	query := `
		SELECT ` + invitationColumns + `, o.name, o.slug, u.name, u.email
		FROM invitations i
		INNER JOIN organizations o ON o.id = i.organization_id
		INNER JOIN users u ON u.id = i.inviter_id
		WHERE i.id = $1
	`
	details := &domain.InvitationDetails{}
	dest := append(invitationDest(&details.Invitation),
		&details.OrganizationName, &details.OrganizationSlug, &details.InviterName, &details.InviterEmail,
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ListPendingByOrganization lists an organization's pending invitations, newest first.
func (r *InvitationsRepository) ListPendingByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		WHERE i.organization_id = $1 AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []*domain.Invitation{}
	for rows.Next() {
		inv := &domain.Invitation{}
		if err := rows.Scan(invitationDest(inv)...); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// AcceptParams describes an invitation acceptance.
type AcceptParams struct {
	InvitationID uuid.UUID
	Membership   *domain.Membership
	// SessionID, when set, gets the organization as its active organization
	// if it has none yet.
	SessionID  *uuid.UUID
	AcceptedAt time.Time
}

// Accept creates the membership, marks the invitation accepted and optionally
// activates the organization on the session, all in one transaction.
// It reports whether the session's active organization was set.
func (r *InvitationsRepository) Accept(ctx context.Context, p AcceptParams) (bool, error) {
	activated := false
	err := Tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertMembership(ctx, tx, p.Membership); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE invitations
			SET status = 'accepted', accepted_at = $2, updated_at = $2
			WHERE id = $1 AND status = 'pending'
		`, p.InvitationID, p.AcceptedAt)
		if err != nil {
			return err
		}
		if err := rowsAffectedOr(result, domain.ErrInvitationNotPending); err != nil {
			return err
		}

		if p.SessionID != nil {
			activated, err = activateOrganizationIfUnset(ctx, tx, *p.SessionID, p.Membership.OrganizationID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return activated, nil
}
