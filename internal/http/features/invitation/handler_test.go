package invitation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/invitation"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

type fakeService struct {
	resent     bool
	created    invitation.CreateInput
	details    *domain.InvitationDetails
	accepted   string
	acceptedBy tenancy.Caller
	err        error
}

func (f *fakeService) Create(_ context.Context, caller tenancy.Caller, in invitation.CreateInput) (*invitation.CreateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = in
	inv := domain.NewInvitation(in.OrganizationID, caller.UserID, in.Email, in.Role, time.Now())
	return &invitation.CreateResult{Invitation: inv, Resent: f.resent}, nil
}

func (f *fakeService) Inspect(_ context.Context, token string) (*domain.InvitationDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func (f *fakeService) Accept(_ context.Context, caller tenancy.Caller, token string) (*invitation.AcceptResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.accepted = token
	f.acceptedBy = caller
	m := domain.NewMembership(caller.UserID, uuid.New(), domain.RoleMember, time.Now())
	return &invitation.AcceptResult{Membership: m, SessionActivated: true}, nil
}

func newRouter(svc Service, caller *tenancy.Caller) http.Handler {
	h := NewHandler(common.NewBase(nil, nil), svc)
	r := chi.NewRouter()
	r.Get("/v1/invitations/{token}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(tenancy.WithCaller(r.Context(), *caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		r.Post("/v1/invitations/{token}/accept", h.Accept)
		r.Post("/v1/organizations/{id}/invitations", h.Create)
	})
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreate(t *testing.T) {
	caller := &tenancy.Caller{UserID: uuid.New()}
	orgID := uuid.New()
	path := "/v1/organizations/" + orgID.String() + "/invitations"

	tests := []struct {
		name       string
		body       string
		resent     bool
		wantStatus int
		wantRole   domain.Role
	}{
		{name: "new invitation", body: `{"email":"cook@goldenpadthai.co","role":"member"}`, wantStatus: http.StatusCreated, wantRole: domain.RoleMember},
		{name: "refreshed invitation", body: `{"email":"cook@goldenpadthai.co","role":"admin"}`, resent: true, wantStatus: http.StatusOK, wantRole: domain.RoleAdmin},
		{name: "role omitted", body: `{"email":"cook@goldenpadthai.co"}`, wantStatus: http.StatusCreated, wantRole: domain.RoleMember},
		{name: "empty role", body: `{"email":"cook@goldenpadthai.co","role":""}`, wantStatus: http.StatusCreated, wantRole: domain.RoleMember},
		{name: "owner role not invitable", body: `{"email":"cook@goldenpadthai.co","role":"owner"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad email", body: `{"email":"cook","role":"member"}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{resent: tt.resent}
			rec := serve(newRouter(svc, caller), http.MethodPost, path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			if rec.Code >= 300 {
				return
			}

			assert.Equal(t, orgID, svc.created.OrganizationID)
			assert.Equal(t, tt.wantRole, svc.created.Role)
			var body CreateResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.resent, body.Resent)
			assert.Equal(t, "cook@goldenpadthai.co", body.Email)
		})
	}
}

func TestCreate_Forbidden(t *testing.T) {
	svc := &fakeService{err: domain.ErrForbidden}
	rec := serve(newRouter(svc, &tenancy.Caller{UserID: uuid.New()}), http.MethodPost,
		"/v1/organizations/"+uuid.NewString()+"/invitations", `{"email":"cook@goldenpadthai.co","role":"member"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGet_Public(t *testing.T) {
	inv := domain.NewInvitation(uuid.New(), uuid.New(), "cook@goldenpadthai.co", domain.RoleMember, time.Now())
	svc := &fakeService{details: &domain.InvitationDetails{
		Invitation:       *inv,
		OrganizationName: "Golden Pad Thai",
		OrganizationSlug: "golden-pad-thai",
		InviterEmail:     "owner@goldenpadthai.co",
	}}

	rec := serve(newRouter(svc, nil), http.MethodGet, "/v1/invitations/"+inv.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body DetailsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Golden Pad Thai", body.OrganizationName)
	assert.Equal(t, inv.ID, body.ID)
	assert.Equal(t, "cook@goldenpadthai.co", body.Email)
	assert.Equal(t, domain.RoleMember, body.Role)
	assert.Equal(t, domain.InvitationStatusPending, body.Status)
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.ErrInvitationNotFound, http.StatusNotFound},
		{domain.ErrInvitationExpired, http.StatusBadRequest},
		{domain.ErrInvitationNotPending, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(newRouter(&fakeService{err: tt.err}, nil), http.MethodGet, "/v1/invitations/"+uuid.NewString(), "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAccept(t *testing.T) {
	caller := &tenancy.Caller{UserID: uuid.New(), SessionID: uuid.New()}
	token := uuid.NewString()
	svc := &fakeService{}

	rec := serve(newRouter(svc, caller), http.MethodPost, "/v1/invitations/"+token+"/accept", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, token, svc.accepted)
	assert.Equal(t, caller.SessionID, svc.acceptedBy.SessionID)

	var body AcceptResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.SessionActivated)
	assert.Equal(t, caller.UserID, body.Membership.UserID)
}

func TestAccept_Errors(t *testing.T) {
	caller := &tenancy.Caller{UserID: uuid.New()}

	rec := serve(newRouter(&fakeService{}, nil), http.MethodPost, "/v1/invitations/"+uuid.NewString()+"/accept", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(newRouter(&fakeService{err: domain.ErrAlreadyMember}, caller), http.MethodPost, "/v1/invitations/"+uuid.NewString()+"/accept", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(newRouter(&fakeService{err: domain.ErrInvitationEmailMismatch}, caller), http.MethodPost, "/v1/invitations/"+uuid.NewString()+"/accept", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
