package scans

import "encoding/json"

// IngestScanRequest is the payload posted by the external detection feed.
type IngestScanRequest struct {
	PlateNumber string          `json:"plateNumber" validate:"required,max=32"`
	VehicleType string          `json:"vehicleType" validate:"required,max=50"`
	Color       string          `json:"color" validate:"required,max=50"`
	OwnerName   *string         `json:"ownerName,omitempty" validate:"omitempty,max=200"`
	TaxStatus   *string         `json:"taxStatus,omitempty" validate:"omitempty,oneof=paid overdue unknown"`
	Location    *string         `json:"location,omitempty" validate:"omitempty,max=200"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	ScannedAt   *string         `json:"scannedAt,omitempty" validate:"omitempty"`
}
