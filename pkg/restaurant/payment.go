package restaurant

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

// PaymentConfigStore is the payment settings storage used by PaymentService.
type PaymentConfigStore interface {
	List(ctx context.Context, organizationID uuid.UUID) ([]*domain.PaymentConfig, error)
	GetEffective(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*domain.PaymentConfig, error)
	Upsert(ctx context.Context, c *domain.PaymentConfig) (*domain.PaymentConfig, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// PaymentService manages PromptPay and receipt settings.
type PaymentService struct {
	tenant
	store PaymentConfigStore
}

// NewPaymentService creates a new payment settings service.
func NewPaymentService(memberships tenancy.MembershipLookup, branches BranchLookup, store PaymentConfigStore) *PaymentService {
	return &PaymentService{tenant: newTenant(memberships, branches), store: store}
}

// List returns every payment config of the organization, default first.
func (s *PaymentService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.PaymentConfig, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, orgID)
}

// Effective returns the branch's config, falling back to the organization
// default.
func (s *PaymentService) Effective(ctx context.Context, caller tenancy.Caller, branchID *uuid.UUID) (*domain.PaymentConfig, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AnyRole)
	if err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, orgID, branchID); err != nil {
		return nil, err
	}
	return s.store.GetEffective(ctx, orgID, branchID)
}

// PaymentConfigInput holds payment settings for a branch, or for the whole
// organization when BranchID is nil.
type PaymentConfigInput struct {
	BranchID      *uuid.UUID
	PromptPayID   *string
	PromptPayName *string
	ShopLogoURL   *string
	ReceiptHeader *string
	ReceiptFooter *string
}

// Upsert stores the settings, replacing any existing config for the same
// branch. Requires admin or owner.
func (s *PaymentService) Upsert(ctx context.Context, caller tenancy.Caller, in PaymentConfigInput) (*domain.PaymentConfig, error) {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, orgID, in.BranchID); err != nil {
		return nil, err
	}

	now := s.now()
	return s.store.Upsert(ctx, &domain.PaymentConfig{
		ID:             uuid.New(),
		OrganizationID: orgID,
		BranchID:       in.BranchID,
		PromptPayID:    in.PromptPayID,
		PromptPayName:  in.PromptPayName,
		ShopLogoURL:    in.ShopLogoURL,
		ReceiptHeader:  in.ReceiptHeader,
		ReceiptFooter:  in.ReceiptFooter,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// Delete removes a payment config. Requires admin or owner.
func (s *PaymentService) Delete(ctx context.Context, caller tenancy.Caller, id uuid.UUID) error {
	orgID, err := s.enter(ctx, caller, tenancy.AdminOrOwner)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, orgID, id)
}
