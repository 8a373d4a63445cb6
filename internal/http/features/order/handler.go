package order

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/apierror"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

const maxListLimit = 500

// Service records orders and moves them through the kitchen workflow.
type Service interface {
	List(ctx context.Context, caller tenancy.Caller, f domain.OrderFilter) ([]*domain.Order, error)
	Get(ctx context.Context, caller tenancy.Caller, id uuid.UUID) (*domain.Order, error)
	Create(ctx context.Context, caller tenancy.Caller, in restaurant.OrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller tenancy.Caller, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
}

// Handler handles order endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new order handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// OrderResponse is the JSON shape of an order.
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrganizationID  uuid.UUID          `json:"organizationId"`
	BranchID        *uuid.UUID         `json:"branchId"`
	ExternalOrderID *string            `json:"externalOrderId"`
	Source          domain.OrderSource `json:"source"`
	Status          domain.OrderStatus `json:"status"`
	CustomerName    *string            `json:"customerName"`
	CustomerPhone   *string            `json:"customerPhone"`
	Items           []domain.OrderItem `json:"items"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	Total           string             `json:"total"`
	Notes           *string            `json:"notes"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	AcceptedAt      *time.Time         `json:"acceptedAt"`
	CompletedAt     *time.Time         `json:"completedAt"`
}

// ItemRequest is one line of a new order. Name and price default to the
// menu item's current values when omitted.
type ItemRequest struct {
	MenuItemID *uuid.UUID `json:"menuItemId" validate:"required_without=Name"`
	Name       string     `json:"name" validate:"max=200"`
	Quantity   int        `json:"quantity" validate:"required,gte=1,lte=1000"`
	Price      string     `json:"price" validate:"omitempty,money"`
	Notes      string     `json:"notes" validate:"max=500"`
}

// CreateRequest represents an order creation request.
type CreateRequest struct {
	BranchID        *uuid.UUID         `json:"branchId"`
	ExternalOrderID *string            `json:"externalOrderId" validate:"omitempty,max=100"`
	Source          domain.OrderSource `json:"source" validate:"omitempty,order_source"`
	CustomerName    *string            `json:"customerName" validate:"omitempty,max=200"`
	CustomerPhone   *string            `json:"customerPhone" validate:"omitempty,max=32"`
	Items           []ItemRequest      `json:"items" validate:"required,min=1,max=100,dive"`
	Discount        string             `json:"discount" validate:"omitempty,money"`
	Notes           *string            `json:"notes" validate:"omitempty,max=1000"`
}

// StatusRequest moves an order to its next status.
type StatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,order_status"`
}

// List returns orders newest first.
// GET /v1/orders?branchId=&status=&source=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	orders, err := h.service.List(r.Context(), caller, filter)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[OrderResponse]{Data: common.Map(orders, toResponse)})
}

// Get returns one order.
// GET /v1/orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(order))
}

// Create records an order.
// POST /v1/orders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if !h.Decode(w, r, &req) {
		return
	}

	items := common.Map(req.Items, func(i ItemRequest) domain.OrderItem {
		return domain.OrderItem{
			MenuItemID: i.MenuItemID,
			Name:       i.Name,
			Quantity:   i.Quantity,
			Price:      i.Price,
			Notes:      i.Notes,
		}
	})

	order, err := h.service.Create(r.Context(), caller, restaurant.OrderInput{
		BranchID:        req.BranchID,
		ExternalOrderID: req.ExternalOrderID,
		Source:          req.Source,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Items:           items,
		Discount:        req.Discount,
		Notes:           req.Notes,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Logger.Info("order created", "order_id", order.ID, "organization_id", order.OrganizationID, "source", order.Source)
	httputil.JSON(w, http.StatusCreated, toResponse(order))
}

// UpdateStatus advances or cancels an order.
// PATCH /v1/orders/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !h.Decode(w, r, &req) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), caller, id, req.Status)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(order))
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) (domain.OrderFilter, bool) {
	var f domain.OrderFilter
	branchID, ok := h.QueryID(w, r, "branchId")
	if !ok {
		return f, false
	}
	f.BranchID = branchID

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := domain.OrderStatus(v)
		if !status.IsValid() {
			h.Fail(w, r, apierror.BadRequest("invalid status"))
			return f, false
		}
		f.Status = &status
	}
	if v := q.Get("source"); v != "" {
		source := domain.OrderSource(v)
		if !source.IsValid() {
			h.Fail(w, r, apierror.BadRequest("invalid source"))
			return f, false
		}
		f.Source = &source
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.Fail(w, r, apierror.BadRequest("invalid limit"))
			return f, false
		}
		f.Limit = min(limit, maxListLimit)
	}
	return f, true
}

func toResponse(o *domain.Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return OrderResponse{
		ID:              o.ID,
		OrganizationID:  o.OrganizationID,
		BranchID:        o.BranchID,
		ExternalOrderID: o.ExternalOrderID,
		Source:          o.Source,
		Status:          o.Status,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		AcceptedAt:      o.AcceptedAt,
		CompletedAt:     o.CompletedAt,
	}
}
