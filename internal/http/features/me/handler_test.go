package me

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

type fakeUsers struct {
	user *domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, name, image *string) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	if name != nil {
		f.user.Name = name
	}
	if image != nil {
		f.user.Image = image
	}
	return f.user, nil
}

func withCaller(r *http.Request, caller tenancy.Caller) *http.Request {
	return r.WithContext(tenancy.WithCaller(r.Context(), caller))
}

func TestGetMe(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "owner@goldenpadthai.co"}
	orgID := uuid.New()
	h := NewHandler(common.NewBase(nil, nil), &fakeUsers{user: user})

	rec := httptest.NewRecorder()
	h.GetMe(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/me", nil), tenancy.Caller{UserID: user.ID, ActiveOrganizationID: &orgID}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, user.Email, body.Email)
	require.NotNil(t, body.ActiveOrganizationID)
	assert.Equal(t, orgID, *body.ActiveOrganizationID)

	rec = httptest.NewRecorder()
	h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.GetMe(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/me", nil), tenancy.Caller{UserID: uuid.New()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "owner@goldenpadthai.co"}
	h := NewHandler(common.NewBase(nil, nil), &fakeUsers{user: user})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/v1/me", strings.NewReader(`{"name":"  Somchai\u0007 "}`))
	h.UpdateMe(rec, withCaller(req, tenancy.Caller{UserID: user.ID}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Somchai", *user.Name)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/v1/me", strings.NewReader(`{"image":"not a url"}`))
	h.UpdateMe(rec, withCaller(req, tenancy.Caller{UserID: user.ID}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
