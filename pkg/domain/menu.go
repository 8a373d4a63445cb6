package domain

import (
	"time"

	"github.com/google/uuid"
)

// Platform is an external delivery platform a menu item can be mapped to.
type Platform string

const (
	PlatformGrab    Platform = "grab"
	PlatformWongnai Platform = "wongnai"
	PlatformLineman Platform = "lineman"
)

// Platforms lists the supported delivery platforms.
var Platforms = []Platform{PlatformGrab, PlatformWongnai, PlatformLineman}

// IsValid reports whether p is a supported platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformGrab, PlatformWongnai, PlatformLineman:
		return true
	}
	return false
}

// MenuItem is a sellable product. A nil BranchID means the item applies to every branch.
type MenuItem struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	SKU            string
	Name           string
	NameTh         *string
	Description    *string
	Price          string
	Category       *string
	IsAvailable    bool
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MenuItemPatch holds optional menu item changes. Nil fields are left unchanged.
type MenuItemPatch struct {
	SKU         *string
	Name        *string
	NameTh      *string
	Description *string
	Price       *string
	Category    *string
	IsAvailable *bool
	SortOrder   *int
}

// MenuMapping links a menu item to its identifier on an external platform.
// There is at most one mapping per (menu item, platform).
type MenuMapping struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	MenuItemID     uuid.UUID
	Platform       Platform
	ExternalID     string
	ExternalName   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
