package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConfig holds PromptPay and receipt settings.
// A nil BranchID marks the organization-wide default.
type PaymentConfig struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	PromptPayID    *string
	PromptPayName  *string
	ShopLogoURL    *string
	ReceiptHeader  *string
	ReceiptFooter  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
