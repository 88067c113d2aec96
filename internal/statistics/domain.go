package statistics

import "time"

// CountBucket is one slice of a group-by-count aggregate.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayCount is one day of the scan time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Dashboard aggregates the numbers shown on the monitoring dashboard.
type Dashboard struct {
	TotalVehicles    int           `json:"totalVehicles"`
	TotalScans       int           `json:"totalScans"`
	TotalUsers       int           `json:"totalUsers"`
	ActiveRoles      int           `json:"activeRoles"`
	ScansToday       int           `json:"scansToday"`
	UnreviewedScans  int           `json:"unreviewedScans"`
	ScansByType      []CountBucket `json:"scansByType"`
	ScansByTaxStatus []CountBucket `json:"scansByTaxStatus"`
	DailyScans       []DayCount    `json:"dailyScans"`
	GeneratedAt      time.Time     `json:"generatedAt"`
}
