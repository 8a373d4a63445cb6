// Package tenancy resolves which organization a request acts on and checks
// that the caller belongs to it.
package tenancy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// Caller identifies the authenticated user behind a request.
type Caller struct {
	UserID               uuid.UUID
	SessionID            uuid.UUID
	Email                string
	ActiveOrganizationID *uuid.UUID
}

// MembershipLookup is the membership storage the resolver and guard need.
type MembershipLookup interface {
	GetEarliestByUser(ctx context.Context, userID uuid.UUID) (*domain.Membership, error)
	GetByUserAndOrganization(ctx context.Context, userID, organizationID uuid.UUID) (*domain.Membership, error)
}

// Resolver picks the organization a request is scoped to.
type Resolver struct {
	memberships MembershipLookup
}

// NewResolver creates a new resolver.
func NewResolver(memberships MembershipLookup) *Resolver {
	return &Resolver{memberships: memberships}
}

// Resolve returns the session's active organization when set, otherwise the
// organization of the caller's earliest membership. It never writes the
// fallback back to the session. A caller without memberships gets
// domain.ErrNoOrganization.
//
// The active organization is returned as-is; membership in it is checked by
// Guard.Require.
func (r *Resolver) Resolve(ctx context.Context, caller Caller) (uuid.UUID, error) {
	if caller.ActiveOrganizationID != nil {
		return *caller.ActiveOrganizationID, nil
	}

	m, err := r.memberships.GetEarliestByUser(ctx, caller.UserID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return uuid.Nil, domain.ErrNoOrganization
	}
	if err != nil {
		return uuid.Nil, err
	}
	return m.OrganizationID, nil
}

// Level is the role requirement of an operation.
type Level int

const (
	// AnyRole admits every member.
	AnyRole Level = iota
	// AdminOrOwner admits admins and owners.
	AdminOrOwner
)

// Guard verifies membership and role before tenant-scoped operations.
type Guard struct {
	memberships MembershipLookup
}

// NewGuard creates a new guard.
func NewGuard(memberships MembershipLookup) *Guard {
	return &Guard{memberships: memberships}
}

// Require returns the caller's membership in the organization. Missing
// membership and insufficient role both yield domain.ErrForbidden.
func (g *Guard) Require(ctx context.Context, userID, organizationID uuid.UUID, level Level) (*domain.Membership, error) {
	m, err := g.memberships.GetByUserAndOrganization(ctx, userID, organizationID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if level == AdminOrOwner && !m.Role.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

// Scope resolves the caller's organization and checks membership in one step.
type Scope struct {
	Resolver *Resolver
	Guard    *Guard
}

// NewScope creates a scope over the membership store.
func NewScope(memberships MembershipLookup) *Scope {
	return &Scope{Resolver: NewResolver(memberships), Guard: NewGuard(memberships)}
}

// Enter resolves the organization and requires the given level in it.
func (s *Scope) Enter(ctx context.Context, caller Caller, level Level) (*domain.Membership, error) {
	orgID, err := s.Resolver.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.Guard.Require(ctx, caller.UserID, orgID, level)
}

type callerKey struct{}

// WithCaller returns a context carrying the caller.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller stored in the context.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
