package domain

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant: a restaurant business owning branches, menus and orders.
type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Logo      *string
	Metadata  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizationWithRole is an organization as seen by one of its members.
type OrganizationWithRole struct {
	Organization
	Role Role
}

// slugPattern: lowercase alphanumerics separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// MaxSlugLength is the longest accepted organization slug.
const MaxSlugLength = 63

// ValidSlug reports whether s can be used as an organization slug.
func ValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

type organizationMetadata struct {
	Description string `json:"description,omitempty"`
}

// Description returns the description stored in the organization metadata.
func (o *Organization) Description() string {
	if o.Metadata == nil || *o.Metadata == "" {
		return ""
	}
	var m organizationMetadata
	if err := json.Unmarshal([]byte(*o.Metadata), &m); err != nil {
		return ""
	}
	return m.Description
}

// SetDescription stores the description in the organization metadata.
func (o *Organization) SetDescription(description string) {
	if description == "" {
		o.Metadata = nil
		return
	}
	data, _ := json.Marshal(organizationMetadata{Description: description})
	s := string(data)
	o.Metadata = &s
}
