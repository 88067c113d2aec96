package users

import "time"

// User represents a user account for management.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	IsActive  bool      `json:"isActive"`
	RoleID    int64     `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListFilters narrows the user listing.
type ListFilters struct {
	Search   string
	IsActive *bool
	RoleID   *int64
	Limit    int
	Offset   int
}

// UpdateUserRequest carries a partial admin update. Accounts are never hard
// deleted; deactivation flips IsActive only.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	RoleID   *int64  `json:"roleId,omitempty" validate:"omitempty,gt=0"`
	IsActive *bool   `json:"isActive,omitempty"`
}
