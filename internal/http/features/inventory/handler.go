package inventory

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// Service manages stock items.
type Service interface {
	List(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) ([]*domain.InventoryItem, error)
	Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.InventoryItem, error)
	Create(ctx context.Context, caller tenancy.Caller, in restaurant.InventoryInput) (*domain.InventoryItem, error)
	Update(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.InventoryPatch) (*domain.InventoryItem, error)
	Delete(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.InventoryItem, error)
}

// Handler handles inventory endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new inventory handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// ItemResponse is the JSON shape of an inventory item.
type ItemResponse struct {
	ID                uuid.UUID  `json:"id"`
	OrganizationID    uuid.UUID  `json:"organizationId"`
	BranchID          *uuid.UUID `json:"branchId"`
	Name              string     `json:"name"`
	NameTh            *string    `json:"nameTh"`
	SKU               *string    `json:"sku"`
	Quantity          string     `json:"quantity"`
	Unit              string     `json:"unit"`
	LowStockThreshold string     `json:"lowStockThreshold"`
	LowStock          bool       `json:"lowStock"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CreateRequest represents an inventory item creation request.
type CreateRequest struct {
	BranchID          *uuid.UUID `json:"branchId"`
	Name              string     `json:"name" validate:"required,max=200"`
	NameTh            *string    `json:"nameTh" validate:"omitempty,max=200"`
	SKU               *string    `json:"sku" validate:"omitempty,max=64"`
	Quantity          string     `json:"quantity" validate:"omitempty,quantity"`
	Unit              string     `json:"unit" validate:"max=20"`
	LowStockThreshold string     `json:"lowStockThreshold" validate:"omitempty,quantity"`
}

// UpdateRequest represents a partial inventory update.
type UpdateRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=200"`
	NameTh            *string `json:"nameTh" validate:"omitempty,max=200"`
	SKU               *string `json:"sku" validate:"omitempty,max=64"`
	Quantity          *string `json:"quantity" validate:"omitempty,quantity"`
	Unit              *string `json:"unit" validate:"omitempty,max=20"`
	LowStockThreshold *string `json:"lowStockThreshold" validate:"omitempty,quantity"`
	IsActive          *bool   `json:"isActive"`
}

// List returns stock items, optionally for one branch.
// GET /v1/inventory?branchId=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	branchID, ok := h.QueryID(w, r, "branchId")
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), caller, branchID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[ItemResponse]{Data: common.Map(items, toResponse)})
}

// Get returns one stock item.
// GET /v1/inventory/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(item))
}

// Create adds a stock item.
// POST /v1/inventory
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), caller, restaurant.InventoryInput{
		BranchID:          req.BranchID,
		Name:              req.Name,
		NameTh:            req.NameTh,
		SKU:               req.SKU,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, toResponse(item))
}

// Update changes a stock item.
// PATCH /v1/inventory/{id}
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

	item, err := h.service.Update(r.Context(), caller, id, domain.InventoryPatch{
		Name:              req.Name,
		NameTh:            req.NameTh,
		SKU:               req.SKU,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          req.IsActive,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(item))
}

// Delete removes a stock item and returns it.
// DELETE /v1/inventory/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.Delete(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(item))
}

func toResponse(i *domain.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                i.ID,
		OrganizationID:    i.OrganizationID,
		BranchID:          i.BranchID,
		Name:              i.Name,
		NameTh:            i.NameTh,
		SKU:               i.SKU,
		Quantity:          i.Quantity,
		Unit:              i.Unit,
		LowStockThreshold: i.LowStockThreshold,
		LowStock:          i.IsLowStock(),
		IsActive:          i.IsActive,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
