package shared

// Permission names the four capability flags a role carries.
type Permission string

// Capability flags.
const (
	PermView   Permission = "view"
	PermEdit   Permission = "edit"
	PermExport Permission = "export"
	PermDelete Permission = "delete"
)

// PermissionSet holds the capability flags copied from a user's role.
type PermissionSet struct {
	CanView   bool `json:"canView"`
	CanEdit   bool `json:"canEdit"`
	CanExport bool `json:"canExport"`
	CanDelete bool `json:"canDelete"`
}

// Allows reports whether the set grants the given permission.
func (p PermissionSet) Allows(perm Permission) bool {
	switch perm {
	case PermView:
		return p.CanView
	case PermEdit:
		return p.CanEdit
	case PermExport:
		return p.CanExport
	case PermDelete:
		return p.CanDelete
	default:
		return false
	}
}

// Identity describes the authenticated caller resolved from a bearer token.
// Permissions reflect the role row at validation time, not token claims.
type Identity struct {
	UserID      int64         `json:"userId"`
	Username    string        `json:"username"`
	Name        string        `json:"name"`
	Role        string        `json:"role"`
	Permissions PermissionSet `json:"permissions"`
}
