package me

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/auth"
	"github.com/tendant/nexuspoint/pkg/domain"
)

// Users loads and updates user profiles.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, image *string) (*domain.User, error)
}

// Handler handles user profile endpoints.
type Handler struct {
	common.Base
	users Users
}

// NewHandler creates a new me handler.
func NewHandler(base common.Base, users Users) *Handler {
	return &Handler{Base: base, users: users}
}

// UserResponse represents the user profile response.
type UserResponse struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	EmailVerified        bool       `json:"emailVerified"`
	Name                 *string    `json:"name"`
	Image                *string    `json:"image"`
	ActiveOrganizationID *uuid.UUID `json:"activeOrganizationId"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// UpdateRequest represents a profile update request.
type UpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Image *string `json:"image" validate:"omitempty,url,max=2048"`
}

// GetMe returns the current user's profile and the session's active organization.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), caller.UserID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(user, caller.ActiveOrganizationID))
}

// UpdateMe updates the current user's display name and avatar.
// PATCH /v1/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Caller(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if !h.Decode(w, r, &req) {
		return
	}
	if req.Name != nil {
		name := auth.CleanText(*req.Name, 100)
		req.Name = &name
	}

	user, err := h.users.UpdateProfile(r.Context(), caller.UserID, req.Name, req.Image)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(user, caller.ActiveOrganizationID))
}

func toResponse(user *domain.User, activeOrg *uuid.UUID) UserResponse {
	return UserResponse{
		ID:                   user.ID.String(),
		Email:                user.Email,
		EmailVerified:        user.EmailVerified,
		Name:                 user.Name,
		Image:                user.Image,
		ActiveOrganizationID: activeOrg,
		CreatedAt:            user.CreatedAt,
	}
}
