package auth

import "time"

// Role is the capability bundle attached to a user account.
type Role struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CanView   bool   `json:"canView"`
	CanEdit   bool   `json:"canEdit"`
	CanExport bool   `json:"canExport"`
	CanDelete bool   `json:"canDelete"`
	IsActive  bool   `json:"isActive"`
}

// User represents an authenticated user account.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Avatar       *string
	IsActive     bool
	RoleID       int64
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the sanitized view of a user returned over HTTP. The password
// hash never leaves the service layer.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	IsActive  bool      `json:"isActive"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func sanitize(user *User) Profile {
	return Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Avatar:    user.Avatar,
		IsActive:  user.IsActive,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
