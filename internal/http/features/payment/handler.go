package payment

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

// Service manages PromptPay and receipt settings.
type Service interface {
	List(ctx context.Context, caller tenancy.Caller) ([]*domain.PaymentConfig, error)
	Effective(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) (*domain.PaymentConfig, error)
	Upsert(ctx context.Context, caller tenancy.Caller, in restaurant.PaymentConfigInput) (*domain.PaymentConfig, error)
	Delete(ctx context.Context, caller tenancy.Caller, id uuid.UUID) error
}

// Handler handles payment config endpoints.
type Handler struct {
	common.Base
	service Service
}

// NewHandler creates a new payment config handler.
func NewHandler(base common.Base, service Service) *Handler {
	return &Handler{Base: base, service: service}
}

// ConfigResponse is the JSON shape of a payment config. A nil branchId
// marks the organization default.
type ConfigResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	BranchID       *uuid.UUID `json:"branchId"`
	PromptPayID    *string    `json:"promptPayId"`
	PromptPayName  *string    `json:"promptPayName"`
	ShopLogoURL    *string    `json:"shopLogoUrl"`
	ReceiptHeader  *string    `json:"receiptHeader"`
	ReceiptFooter  *string    `json:"receiptFooter"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// UpsertRequest sets the config for a branch, or the organization default
// when branchId is omitted.
type UpsertRequest struct {
	BranchID      *uuid.UUID `json:"branchId"`
	PromptPayID   *string    `json:"promptPayId" validate:"omitempty,max=20"`
	PromptPayName *string    `json:"promptPayName" validate:"omitempty,max=200"`
	ShopLogoURL   *string    `json:"shopLogoUrl" validate:"omitempty,url,max=2048"`
	ReceiptHeader *string    `json:"receiptHeader" validate:"omitempty,max=500"`
	ReceiptFooter *string    `json:"receiptFooter" validate:"omitempty,max=500"`
}

// List returns every payment config of the organization.
// GET /v1/payment-configs
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	configs, err := h.service.List(r.Context(), caller)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, common.Page[ConfigResponse]{Data: common.Map(configs, toResponse)})
}

// Effective returns the config that applies to a branch, falling back to
// the organization default.
// GET /v1/payment-configs/effective?branchId=
func (h *Handler) Effective(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	branchID, ok := h.QueryID(w, r, "branchId")
	if !ok {
		return
	}

	config, err := h.service.Effective(r.Context(), caller, branchID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(config))
}

// Upsert creates or replaces a payment config.
// PUT /v1/payment-configs
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	var req UpsertRequest
	if !h.Decode(w, r, &req) {
		return
	}

	config, err := h.service.Upsert(r.Context(), caller, restaurant.PaymentConfigInput{
		BranchID:      req.BranchID,
		PromptPayID:   req.PromptPayID,
		PromptPayName: req.PromptPayName,
		ShopLogoURL:   req.ShopLogoURL,
		ReceiptHeader: req.ReceiptHeader,
		ReceiptFooter: req.ReceiptFooter,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(config))
}

// Delete removes a payment config.
// DELETE /v1/payment-configs/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.NoContent(w)
}

func toResponse(c *domain.PaymentConfig) ConfigResponse {
	return ConfigResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		BranchID:       c.BranchID,
		PromptPayID:    c.PromptPayID,
		PromptPayName:  c.PromptPayName,
		ShopLogoURL:    c.ShopLogoURL,
		ReceiptHeader:  c.ReceiptHeader,
		ReceiptFooter:  c.ReceiptFooter,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
