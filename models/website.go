package models

import "time"

// Website is a user-owned site bound (optionally) to a GA4 property.
// PropertyID is the numeric GA4 property id, e.g. "421337007", not the
// full "properties/421337007" resource name.
type Website struct {
	ID           int        `json:"id"`
	UserID       int        `json:"-"`
	Name         string     `json:"name"`
	Domain       string     `json:"domain"`
	PropertyID   string     `json:"property_id"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateWebsiteRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	Domain     string `json:"domain" binding:"required,max=255"`
	PropertyID string `json:"property_id"`
}

type UpdateWebsiteRequest struct {
	Name       string `json:"name" binding:"required,max=120"`
	Domain     string `json:"domain" binding:"required,max=255"`
	PropertyID string `json:"property_id"`
}

// GA4Property is one selectable property from the user's Google account.
type GA4Property struct {
	PropertyID  string `json:"property_id"`
	DisplayName string `json:"display_name"`
	Account     string `json:"account"`
}
