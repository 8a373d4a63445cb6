package tenancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/pkg/domain"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	userID := uuid.New()
	orgA, orgB := uuid.New(), uuid.New()
	first := domain.NewMembership(userID, orgA, domain.RoleMember, base)
	second := domain.NewMembership(userID, orgB, domain.RoleOwner, base.Add(time.Hour))

	resolver := NewResolver(newFakeMemberships(second, first))

	t.Run("active organization wins", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, Caller{UserID: userID, ActiveOrganizationID: &orgB})
		require.NoError(t, err)
		assert.Equal(t, orgB, got)
	})

	t.Run("falls back to earliest membership", func(t *testing.T) {
		caller := Caller{UserID: userID}
		got, err := resolver.Resolve(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, orgA, got)
		assert.Nil(t, caller.ActiveOrganizationID)
	})

	t.Run("no memberships", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, Caller{UserID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrNoOrganization)
	})

	t.Run("storage error is passed through", func(t *testing.T) {
		boom := errors.New("boom")
		r := NewResolver(&fakeMemberships{err: boom})
		_, err := r.Resolve(ctx, Caller{UserID: userID})
		assert.ErrorIs(t, err, boom)
	})
}

func TestGuard_Require(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	orgID := uuid.New()

	owner := domain.NewMembership(uuid.New(), orgID, domain.RoleOwner, now)
	admin := domain.NewMembership(uuid.New(), orgID, domain.RoleAdmin, now)
	member := domain.NewMembership(uuid.New(), orgID, domain.RoleMember, now)
	guard := NewGuard(newFakeMemberships(owner, admin, member))

	tests := []struct {
		name    string
		userID  uuid.UUID
		level   Level
		wantErr error
	}{
		{"owner any", owner.UserID, AnyRole, nil},
		{"owner admin", owner.UserID, AdminOrOwner, nil},
		{"admin admin", admin.UserID, AdminOrOwner, nil},
		{"member any", member.UserID, AnyRole, nil},
		{"member admin", member.UserID, AdminOrOwner, domain.ErrForbidden},
		{"outsider any", uuid.New(), AnyRole, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := guard.Require(ctx, tt.userID, orgID, tt.level)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, m.UserID)
		})
	}
}

func TestScope_Enter_StaleActiveOrganization(t *testing.T) {
	userID := uuid.New()
	own := domain.NewMembership(userID, uuid.New(), domain.RoleOwner, time.Now())
	stale := uuid.New()

	scope := NewScope(newFakeMemberships(own))
	_, err := scope.Enter(context.Background(), Caller{UserID: userID, ActiveOrganizationID: &stale}, AnyRole)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCallerContext(t *testing.T) {
	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	c := Caller{UserID: uuid.New(), SessionID: uuid.New()}
	got, ok := CallerFrom(WithCaller(context.Background(), c))
	require.True(t, ok)
	assert.Equal(t, c, got)
}
