// Package common holds request plumbing shared by the feature handlers.
package common

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/apierror"
	"github.com/tendant/nexuspoint/pkg/tenancy"
	"github.com/tendant/nexuspoint/pkg/validator"
)

// Base is embedded by feature handlers.
type Base struct {
	Logger    *slog.Logger
	Validator *validator.Validator
}

// NewBase creates a Base. A nil logger discards output.
func NewBase(logger *slog.Logger, v *validator.Validator) Base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if v == nil {
		v = validator.New()
	}
	return Base{Logger: logger, Validator: v}
}

// Fail writes err as an API error. Server-side failures are logged with
// their cause; the client only sees the generic message.
func (b Base) Fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := httputil.WriteError(w, r, err)
	if apiErr.Status >= http.StatusInternalServerError {
		b.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
}

// Decode reads and validates a JSON body into dst. It writes the error
// response itself and returns false on failure.
func (b Base) Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		b.Fail(w, r, err)
		return false
	}
	if err := b.Validator.Validate(dst); err != nil {
		b.Fail(w, r, err)
		return false
	}
	return true
}

// Caller returns the authenticated caller, writing 401 when absent.
func (b Base) Caller(w http.ResponseWriter, r *http.Request) (tenancy.Caller, bool) {
	caller, ok := tenancy.CallerFrom(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return tenancy.Caller{}, false
	}
	return caller, true
}

// PathID parses a UUID URL parameter. A malformed id is reported as not
// found, the same as an id from another tenant.
func (b Base) PathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		b.Fail(w, r, apierror.NotFound(""))
		return uuid.Nil, false
	}
	return id, true
}

// QueryID parses an optional UUID query parameter.
func (b Base) QueryID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		b.Fail(w, r, apierror.BadRequest("invalid "+name))
		return nil, false
	}
	return &id, true
}

// Page is the list envelope returned by collection endpoints.
type Page[T any] struct {
	Data []T `json:"data"`
}

// Map converts each element with fn. The result is never nil.
func Map[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
