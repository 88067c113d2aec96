package vehicles

import "time"

// Tax status values tracked for registered vehicles.
const (
	TaxStatusPaid    = "paid"
	TaxStatusOverdue = "overdue"
	TaxStatusUnknown = "unknown"
)

// Vehicle represents a registered vehicle in the monitoring registry.
type Vehicle struct {
	ID          int64      `json:"id"`
	PlateNumber string     `json:"plateNumber"`
	VehicleType string     `json:"vehicleType"`
	Color       string     `json:"color"`
	OwnerName   *string    `json:"ownerName,omitempty"`
	TaxStatus   string     `json:"taxStatus"`
	TaxDueDate  *time.Time `json:"taxDueDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListFilters narrows the vehicle listing.
type ListFilters struct {
	Plate       string
	VehicleType string
	TaxStatus   string
	IsActive    *bool
	SortBy      string
	SortDir     string
	Limit       int
	Offset      int
}
