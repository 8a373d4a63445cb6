package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// SessionsRepository stores login sessions. A row lives until the
// maintenance job prunes it after expiry or revocation.
type SessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *SessionsRepository {
	return &SessionsRepository{db: db}
}

const sessionColumns = `
	id, user_id, token_hash, active_organization_id, created_at, expires_at,
	revoked_at, last_seen_at, metadata
`

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	session := &domain.Session{}
	var metadata []byte
	err := row.Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.ActiveOrganizationID,
		&session.CreatedAt, &session.ExpiresAt, &session.RevokedAt,
		&session.LastSeenAt, &metadata,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session.Metadata = metadata
	return session, nil
}

func (r *SessionsRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token_hash, active_organization_id, created_at, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var metadata any
	if len(session.Metadata) > 0 {
		metadata = []byte(session.Metadata)
	}
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.ActiveOrganizationID,
		session.CreatedAt, session.ExpiresAt, metadata,
	)
	return err
}

// GetByID retrieves a session by ID.
func (r *SessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(r.db.QueryRowContext(ctx, query, id))
}

// GetByTokenHash finds a live-or-expired session by refresh token hash.
// Revoked sessions are reported as not found.
func (r *SessionsRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE token_hash = $1 AND revoked_at IS NULL`
	return scanSession(r.db.QueryRowContext(ctx, query, tokenHash))
}

// SetActiveOrganization records the organization the session is working in.
func (r *SessionsRepository) SetActiveOrganization(ctx context.Context, sessionID, organizationID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET active_organization_id = $2
		WHERE id = $1 AND revoked_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, sessionID, organizationID)
	if err != nil {
		return err
	}
	return rowsAffectedOr(result, domain.ErrSessionNotFound)
}

// activateOrganizationIfUnset sets the session's active organization only when
// none is set. It reports whether the session was updated.
func activateOrganizationIfUnset(ctx context.Context, q Querier, sessionID, organizationID uuid.UUID) (bool, error) {
	query := `
		UPDATE sessions
		SET active_organization_id = $2
		WHERE id = $1 AND active_organization_id IS NULL AND revoked_at IS NULL
	`
	result, err := q.ExecContext(ctx, query, sessionID, organizationID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RevokeByTokenHash ends one session. Revoking an already revoked or
// unknown token is not an error.
func (r *SessionsRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return r.revokeWhere(ctx, "token_hash = $1", tokenHash)
}

// RevokeAllByUserID ends every live session of the user.
func (r *SessionsRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.revokeWhere(ctx, "user_id = $1", userID)
}

func (r *SessionsRepository) revokeWhere(ctx context.Context, cond string, arg any) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE ` + cond + ` AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, arg)
	return err
}

func (r *SessionsRepository) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE sessions
		SET last_seen_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteExpired removes sessions that expired or were revoked more than
// olderThan ago and returns how many were removed.
func (r *SessionsRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1 OR revoked_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
