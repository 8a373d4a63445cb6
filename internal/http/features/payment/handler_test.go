package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// fakeService keeps one config per branch; the nil key is the organization default.
type fakeService struct {
	configs map[uuid.UUID]*domain.PaymentConfig
}

func (f *fakeService) List(context.Context, tenancy.Caller) ([]*domain.PaymentConfig, error) {
	var out []*domain.PaymentConfig
	for _, c := range f.configs {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeService) Effective(_ context.Context, _ tenancy.Caller, branchID *uuid.UUID) (*domain.PaymentConfig, error) {
	if branchID != nil {
		if c, ok := f.configs[*branchID]; ok {
			return c, nil
		}
	}
	if c, ok := f.configs[uuid.Nil]; ok {
		return c, nil
	}
	return nil, domain.ErrPaymentConfigNotFound
}

func (f *fakeService) Upsert(_ context.Context, _ tenancy.Caller, in restaurant.PaymentConfigInput) (*domain.PaymentConfig, error) {
	key := uuid.Nil
	if in.BranchID != nil {
		key = *in.BranchID
	}
	c := &domain.PaymentConfig{ID: uuid.New(), BranchID: in.BranchID, PromptPayID: in.PromptPayID, PromptPayName: in.PromptPayName}
	f.configs[key] = c
	return c, nil
}

func (f *fakeService) Delete(_ context.Context, _ tenancy.Caller, id uuid.UUID) error {
	for k, c := range f.configs {
		if c.ID == id {
			delete(f.configs, k)
			return nil
		}
	}
	return domain.ErrPaymentConfigNotFound
}

func newRouter(svc Service) http.Handler {
	h := NewHandler(common.NewBase(nil, nil), svc)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(tenancy.WithCaller(r.Context(), tenancy.Caller{UserID: uuid.New()})))
		})
	})
	r.Get("/v1/payment-configs", h.List)
	r.Get("/v1/payment-configs/effective", h.Effective)
	r.Put("/v1/payment-configs", h.Upsert)
	r.Delete("/v1/payment-configs/{id}", h.Delete)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestEffective_FallsBackToDefault(t *testing.T) {
	svc := &fakeService{configs: map[uuid.UUID]*domain.PaymentConfig{}}
	router := newRouter(svc)
	branchID := uuid.New()

	rec := serve(router, http.MethodGet, "/v1/payment-configs/effective?branchId="+branchID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodPut, "/v1/payment-configs", `{"promptPayId":"0812345678","promptPayName":"Golden Pad Thai"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/payment-configs/effective?branchId="+branchID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var config ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&config))
	assert.Nil(t, config.BranchID)
	require.NotNil(t, config.PromptPayID)
	assert.Equal(t, "0812345678", *config.PromptPayID)

	rec = serve(router, http.MethodPut, "/v1/payment-configs", `{"branchId":"`+branchID.String()+`","promptPayId":"0899999999"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/payment-configs/effective?branchId="+branchID.String(), "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&config))
	require.NotNil(t, config.BranchID)
	assert.Equal(t, branchID, *config.BranchID)

	rec = serve(router, http.MethodDelete, "/v1/payment-configs/"+config.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/payment-configs", "")
	var page common.Page[ConfigResponse]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Data, 1)
}

func TestUpsert_RejectsBadLogoURL(t *testing.T) {
	svc := &fakeService{configs: map[uuid.UUID]*domain.PaymentConfig{}}
	rec := serve(newRouter(svc), http.MethodPut, "/v1/payment-configs", `{"shopLogoUrl":"not a url"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
