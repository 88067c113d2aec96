package reports

import "time"

// DayRow is one day of the range summary.
type DayRow struct {
	Date            string `json:"date"`
	ScanCount       int    `json:"scanCount"`
	ReviewedCount   int    `json:"reviewedCount"`
	UnreviewedCount int    `json:"unreviewedCount"`
}

// Summary covers a date range of scan activity.
type Summary struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	TotalScans  int       `json:"totalScans"`
	Reviewed    int       `json:"reviewed"`
	Unreviewed  int       `json:"unreviewed"`
	Days        []DayRow  `json:"days"`
	GeneratedAt time.Time `json:"generatedAt"`
}
