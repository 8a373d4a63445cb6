package menu

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

// Service manages menu items and their delivery platform mappings.
type Service interface {
	ListItems(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) ([]*domain.MenuItem, error)
	GetItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuItem, error)
	CreateItem(ctx context.Context, caller tenancy.Caller, in restaurant.MenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID, p domain.MenuItemPatch) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuItem, error)
	ListMappings(ctx context.Context, caller tenancy.Caller, menuItemID *uuid.UUID) ([]*domain.MenuMapping, error)
	UpsertMapping(ctx context.Context, caller tenancy.Caller, in restaurant.MappingInput) (*domain.MenuMapping, error)
	DeleteMapping(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.MenuMapping, error)
}

// Handler handles menu endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new menu handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// ItemResponse is the JSON shape of a menu item.
type ItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	BranchID       *uuid.UUID `json:"branchId"`
	SKU            string     `json:"sku"`
	Name           string     `json:"name"`
	NameTh         *string    `json:"nameTh"`
	Description    *string    `json:"description"`
	Price          string     `json:"price"`
	Category       *string    `json:"category"`
	IsAvailable    bool       `json:"isAvailable"`
	SortOrder      int        `json:"sortOrder"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// MappingResponse is the JSON shape of a menu mapping.
type MappingResponse struct {
	ID           uuid.UUID       `json:"id"`
	MenuItemID   uuid.UUID       `json:"menuItemId"`
	Platform     domain.Platform `json:"platform"`
	ExternalID   string          `json:"externalId"`
	ExternalName *string         `json:"externalName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreateItemRequest represents a menu item creation request.
type CreateItemRequest struct {
	BranchID    *uuid.UUID `json:"branchId"`
	SKU         string     `json:"sku" validate:"required,max=64"`
	Name        string     `json:"name" validate:"required,max=200"`
	NameTh      *string    `json:"nameTh" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Price       string     `json:"price" validate:"required,money"`
	Category    *string    `json:"category" validate:"omitempty,max=100"`
	IsAvailable *bool      `json:"isAvailable"`
	SortOrder   int        `json:"sortOrder" validate:"gte=0"`
}

// UpdateItemRequest represents a partial menu item update.
type UpdateItemRequest struct {
	SKU         *string `json:"sku" validate:"omitempty,min=1,max=64"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	NameTh      *string `json:"nameTh" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       *string `json:"price" validate:"omitempty,money"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	IsAvailable *bool   `json:"isAvailable"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,gte=0"`
}

// MappingRequest creates or replaces the mapping for (menu item, platform).
type MappingRequest struct {
	MenuItemID   uuid.UUID       `json:"menuItemId" validate:"required"`
	Platform     domain.Platform `json:"platform" validate:"required,platform"`
	ExternalID   string          `json:"externalId" validate:"required,max=200"`
	ExternalName *string         `json:"externalName" validate:"omitempty,max=200"`
}

// ListItems returns the organization's menu, optionally for one branch.
// GET /v1/menu/items?branchId=
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	branchID, ok := h.QueryID(w, r, "branchId")
	if !ok {
		return
	}

	items, err := h.service.ListItems(r.Context(), caller, branchID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[ItemResponse]{Data: common.Map(items, toItemResponse)})
}

// GetItem returns one menu item.
// GET /v1/menu/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toItemResponse(item))
}

// CreateItem adds a menu item.
// POST /v1/menu/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req CreateItemRequest
	if !h.Decode(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), caller, restaurant.MenuItemInput{
		BranchID:    req.BranchID,
		SKU:         req.SKU,
		Name:        req.Name,
		NameTh:      req.NameTh,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: req.IsAvailable,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, toItemResponse(item))
}

// UpdateItem changes a menu item.
// PATCH /v1/menu/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateItemRequest
	if !h.Decode(w, r, &req) {
		return
	}

	item, err := h.service.UpdateItem(r.Context(), caller, id, domain.MenuItemPatch{
		SKU:         req.SKU,
		Name:        req.Name,
		NameTh:      req.NameTh,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: req.IsAvailable,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toItemResponse(item))
}

// DeleteItem removes a menu item and returns it.
// DELETE /v1/menu/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.DeleteItem(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toItemResponse(item))
}

// ListMappings returns platform mappings, optionally for one menu item.
// GET /v1/menu/mappings?menuItemId=
func (h *Handler) ListMappings(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	menuItemID, ok := h.QueryID(w, r, "menuItemId")
	if !ok {
		return
	}

	mappings, err := h.service.ListMappings(r.Context(), caller, menuItemID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[MappingResponse]{Data: common.Map(mappings, toMappingResponse)})
}

// UpsertMapping creates or replaces a platform mapping.
// PUT /v1/menu/mappings
func (h *Handler) UpsertMapping(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req MappingRequest
	if !h.Decode(w, r, &req) {
		return
	}

	mapping, err := h.service.UpsertMapping(r.Context(), caller, restaurant.MappingInput{
		MenuItemID:   req.MenuItemID,
		Platform:     req.Platform,
		ExternalID:   req.ExternalID,
		ExternalName: req.ExternalName,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toMappingResponse(mapping))
}

// DeleteMapping removes a platform mapping and returns it.
// DELETE /v1/menu/mappings/{id}
func (h *Handler) DeleteMapping(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	mapping, err := h.service.DeleteMapping(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toMappingResponse(mapping))
}

func toItemResponse(m *domain.MenuItem) ItemResponse {
	return ItemResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
		SKU:            m.SKU,
		Name:           m.Name,
		NameTh:         m.NameTh,
		Description:    m.Description,
		Price:          m.Price,
		Category:       m.Category,
		IsAvailable:    m.IsAvailable,
		SortOrder:      m.SortOrder,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toMappingResponse(m *domain.MenuMapping) MappingResponse {
	return MappingResponse{
		ID:           m.ID,
		MenuItemID:   m.MenuItemID,
		Platform:     m.Platform,
		ExternalID:   m.ExternalID,
		ExternalName: m.ExternalName,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
