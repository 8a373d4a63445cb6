package dashboard

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Service computes dashboard statistics.
type Service interface {
	GetStats(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) (*domain.DashboardStats, error)
}

// Handler handles dashboard endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new dashboard handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// Stats returns revenue and counts for the caller's organization,
// optionally narrowed to one branch.
// GET /v1/dashboard/stats?branchId=
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	branchID, ok := h.QueryID(w, r, "branchId")
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), caller, branchID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}
