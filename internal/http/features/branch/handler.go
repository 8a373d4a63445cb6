package branch

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Service manages the caller organization's branches.
type Service interface {
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.Branch, error)
	Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.Branch, error)
	Create(ctx context.Context, caller tenancy.Caller, name string, address *string) (*domain.Branch, error)
	Update(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.BranchPatch) (*domain.Branch, error)
}

// Handler handles branch endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new branch handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// BranchResponse is the JSON shape of a branch.
type BranchResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Address        *string   `json:"address"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateRequest represents a branch creation request.
type CreateRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// UpdateRequest represents a partial branch update.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	IsActive *bool   `json:"isActive"`
}

// List returns the active branches of the caller's organization.
// GET /v1/branches
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	branches, err := h.service.List(r.Context(), caller)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[BranchResponse]{Data: common.Map(branches, toResponse)})
}

// Get returns one branch.
// GET /v1/branches/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	branch, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(branch))
}

// Create adds a branch.
// POST /v1/branches
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	branch, err := h.service.Create(r.Context(), caller, req.Name, req.Address)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, toResponse(branch))
}

// Update changes a branch.
// PATCH /v1/branches/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	branch, err := h.service.Update(r.Context(), caller, id, domain.BranchPatch{
		Name:     req.Name,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(branch))
}

func toResponse(b *domain.Branch) BranchResponse {
	return BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Address:        b.Address,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
