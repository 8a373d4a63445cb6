package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidToken       = errors.New("invalid token")
)

// Validation errors
var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password does not meet requirements")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidSlug       = errors.New("invalid slug")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidPlatform   = errors.New("invalid platform")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrMissingExternalID = errors.New("external id is required")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Tenancy errors
var (
	ErrNoOrganization          = errors.New("no organization found")
	ErrForbidden               = errors.New("you do not have permission to perform this action")
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrSlugTaken               = errors.New("organization slug already taken")
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrAlreadyMember           = errors.New("user is already a member of this organization")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationNotPending    = errors.New("invitation is no longer pending")
	ErrInvitationPending       = errors.New("invitation already pending for this email")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationEmailMismatch = errors.New("invitation was sent to a different email address")
	ErrNotImplemented          = errors.New("not implemented")
)

// Restaurant resource errors
var (
	ErrBranchNotFound         = errors.New("branch not found")
	ErrMenuItemNotFound       = errors.New("menu item not found")
	ErrMenuMappingNotFound    = errors.New("menu mapping not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderTransition = errors.New("invalid order status transition")
	ErrInventoryItemNotFound  = errors.New("inventory item not found")
	ErrPaymentConfigNotFound  = errors.New("payment config not found")
)
