package scans

import (
	"encoding/json"
	"time"
)

// Scan is a single CCTV plate detection event. Rows are immutable once
// ingested except for the reviewed flag.
type Scan struct {
	ID          int64           `json:"id"`
	PlateNumber string          `json:"plateNumber"`
	VehicleType string          `json:"vehicleType"`
	Color       string          `json:"color"`
	OwnerName   *string         `json:"ownerName,omitempty"`
	TaxStatus   *string         `json:"taxStatus,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Reviewed    bool            `json:"reviewed"`
	ScannedAt   time.Time       `json:"scannedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListFilters narrows the scan listing.
type ListFilters struct {
	Plate       string
	VehicleType string
	TaxStatus   string
	Reviewed    *bool
	From        *time.Time
	To          *time.Time
	SortBy      string
	SortDir     string
	Limit       int
	Offset      int
}
