package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold applies when an inventory item has no threshold of its own.
const DefaultLowStockThreshold = "10"

// InventoryItem is a stock-keeping record for an ingredient or product.
type InventoryItem struct {
	ID                uuid.UUID
	OrganizationID    uuid.UUID
	BranchID          *uuid.UUID
	Name              string
	NameTh            *string
	SKU               *string
	Quantity          string
	Unit              string
	LowStockThreshold string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock reports whether the quantity is at or below the threshold.
func (i *InventoryItem) IsLowStock() bool {
	qty, err := strconv.ParseFloat(i.Quantity, 64)
	if err != nil {
		return false
	}
	threshold := i.LowStockThreshold
	if threshold == "" {
		threshold = DefaultLowStockThreshold
	}
	limit, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return false
	}
	return qty <= limit
}

// InventoryPatch holds optional inventory changes. Nil fields are left unchanged.
type InventoryPatch struct {
	Name              *string
	NameTh            *string
	SKU               *string
	Quantity          *string
	Unit              *string
	LowStockThreshold *string
	IsActive          *bool
}
