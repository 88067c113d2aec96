package vehicles

// CreateVehicleRequest registers a new vehicle.
type CreateVehicleRequest struct {
	PlateNumber string  `json:"plateNumber" validate:"required,max=32"`
	VehicleType string  `json:"vehicleType" validate:"required,max=50"`
	Color       string  `json:"color" validate:"required,max=50"`
	OwnerName   *string `json:"ownerName,omitempty" validate:"omitempty,max=200"`
	TaxStatus   string  `json:"taxStatus" validate:"omitempty,oneof=paid overdue unknown"`
	TaxDueDate  *string `json:"taxDueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateVehicleRequest carries a partial vehicle update.
type UpdateVehicleRequest struct {
	VehicleType *string `json:"vehicleType,omitempty" validate:"omitempty,max=50"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=50"`
	OwnerName   *string `json:"ownerName,omitempty" validate:"omitempty,max=200"`
	TaxStatus   *string `json:"taxStatus,omitempty" validate:"omitempty,oneof=paid overdue unknown"`
	TaxDueDate  *string `json:"taxDueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
