package tenancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
)

type fakeMemberships struct {
	byKey    map[[2]uuid.UUID]*domain.Membership
	earliest map[uuid.UUID]*domain.Membership
	err      error
}

func newFakeMemberships(ms ...*domain.Membership) *fakeMemberships {
	f := &fakeMemberships{
		byKey:    make(map[[2]uuid.UUID]*domain.Membership),
		earliest: make(map[uuid.UUID]*domain.Membership),
	}
	for _, m := range ms {
		f.byKey[[2]uuid.UUID{m.UserID, m.OrganizationID}] = m
		if e, ok := f.earliest[m.UserID]; !ok || m.CreatedAt.Before(e.CreatedAt) {
			f.earliest[m.UserID] = m
		}
	}
	return f
}

func (f *fakeMemberships) GetEarliestByUser(_ context.Context, userID uuid.UUID) (*domain.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.earliest[userID]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	return m, nil
}

func (f *fakeMemberships) GetByUserAndOrganization(_ context.Context, userID, orgID uuid.UUID) (*domain.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.byKey[[2]uuid.UUID{userID, orgID}]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	return m, nil
}
