package roles

import "time"

// Role represents a named bundle of capability flags.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CanView     bool      `json:"canView"`
	CanEdit     bool      `json:"canEdit"`
	CanExport   bool      `json:"canExport"`
	CanDelete   bool      `json:"canDelete"`
	IsActive    bool      `json:"isActive"`
	UserCount   int       `json:"userCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Stats aggregates the dashboard view over active roles.
type Stats struct {
	TotalRoles int    `json:"totalRoles"`
	Roles      []Role `json:"roles"`
}
