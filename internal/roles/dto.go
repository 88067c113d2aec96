package roles

// CreateRoleRequest carries a new role definition. Unset flags default to
// view-only.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	CanView     *bool  `json:"canView,omitempty"`
	CanEdit     *bool  `json:"canEdit,omitempty"`
	CanExport   *bool  `json:"canExport,omitempty"`
	CanDelete   *bool  `json:"canDelete,omitempty"`
}

// UpdateRoleRequest carries a partial role update.
type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	CanView     *bool   `json:"canView,omitempty"`
	CanEdit     *bool   `json:"canEdit,omitempty"`
	CanExport   *bool   `json:"canExport,omitempty"`
	CanDelete   *bool   `json:"canDelete,omitempty"`
}
