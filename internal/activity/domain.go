package activity

import "time"

// Entry represents one row of the append-only activity trail.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	Username  string    `json:"username,omitempty"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// Well-known actions written by the services.
const (
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionLogout        = "logout"
	ActionProfileUpdate = "profile_update"
	ActionRoleCreate    = "role_create"
	ActionRoleUpdate    = "role_update"
	ActionRoleDelete    = "role_delete"
	ActionUserUpdate    = "user_update"
	ActionVehicleCreate = "vehicle_create"
	ActionVehicleUpdate = "vehicle_update"
	ActionVehicleDelete = "vehicle_delete"
	ActionScanReview    = "scan_review"
)
