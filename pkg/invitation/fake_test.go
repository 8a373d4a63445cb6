package invitation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/repository"
)

type fakeStore struct {
	mu          sync.Mutex
	invitations map[uuid.UUID]*domain.Invitation
	orgs        map[uuid.UUID]string
	members     *fakeMemberships
	sessions    map[uuid.UUID]*uuid.UUID
	acceptErr   error
}

func newFakeStore(members *fakeMemberships) *fakeStore {
	return &fakeStore{
		invitations: make(map[uuid.UUID]*domain.Invitation),
		orgs:        make(map[uuid.UUID]string),
		members:     members,
		sessions:    make(map[uuid.UUID]*uuid.UUID),
	}
}

func (f *fakeStore) Create(_ context.Context, inv *domain.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invitations {
		if existing.IsPending() && existing.OrganizationID == inv.OrganizationID && existing.Email == inv.Email {
			return domain.ErrInvitationPending
		}
	}
	cp := *inv
	f.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) GetPendingByEmail(_ context.Context, orgID uuid.UUID, email string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.IsPending() && inv.OrganizationID == orgID && inv.Email == email {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeStore) RefreshPending(_ context.Context, inv *domain.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invitations[inv.ID]
	if !ok || !stored.IsPending() {
		return domain.ErrInvitationNotPending
	}
	stored.Role = inv.Role
	stored.InviterID = inv.InviterID
	stored.ExpiresAt = inv.ExpiresAt
	stored.UpdatedAt = inv.UpdatedAt
	return nil
}

func (f *fakeStore) GetDetails(ctx context.Context, id uuid.UUID) (*domain.InvitationDetails, error) {
	inv, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := "Alice"
	return &domain.InvitationDetails{
		Invitation:       *inv,
		OrganizationName: f.orgs[inv.OrganizationID],
		OrganizationSlug: "golden-pad-thai",
		InviterName:      &name,
		InviterEmail:     "alice@example.com",
	}, nil
}

func (f *fakeStore) ListPendingByOrganization(_ context.Context, orgID uuid.UUID) ([]*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range f.invitations {
		if inv.IsPending() && inv.OrganizationID == orgID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Accept applies all effects or none, like the database transaction.
func (f *fakeStore) Accept(_ context.Context, p repository.AcceptParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acceptErr != nil {
		return false, f.acceptErr
	}
	inv, ok := f.invitations[p.InvitationID]
	if !ok || !inv.IsPending() {
		return false, domain.ErrInvitationNotPending
	}
	if err := f.members.add(p.Membership); err != nil {
		return false, err
	}
	inv.Status = domain.InvitationStatusAccepted
	at := p.AcceptedAt
	inv.AcceptedAt = &at

	if p.SessionID == nil {
		return false, nil
	}
	if active, ok := f.sessions[*p.SessionID]; ok && active == nil {
		orgID := p.Membership.OrganizationID
		f.sessions[*p.SessionID] = &orgID
		return true, nil
	}
	return false, nil
}

type fakeMemberships struct {
	mu      sync.Mutex
	members []*domain.Membership
	emails  map[uuid.UUID]string
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{emails: make(map[uuid.UUID]string)}
}

func (f *fakeMemberships) add(m *domain.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.members {
		if existing.UserID == m.UserID && existing.OrganizationID == m.OrganizationID {
			return domain.ErrAlreadyMember
		}
	}
	f.members = append(f.members, m)
	return nil
}

func (f *fakeMemberships) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}

func (f *fakeMemberships) GetEarliestByUser(_ context.Context, userID uuid.UUID) (*domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (f *fakeMemberships) GetByUserAndOrganization(_ context.Context, userID, orgID uuid.UUID) (*domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.UserID == userID && m.OrganizationID == orgID {
			return m, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (f *fakeMemberships) ExistsByEmail(_ context.Context, orgID uuid.UUID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.OrganizationID == orgID && f.emails[m.UserID] == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) NotifyInvitation(_ context.Context, n Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var errBoom = errors.New("boom")
