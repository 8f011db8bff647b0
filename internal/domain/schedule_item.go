package domain

type ScheduleItem struct {
	JobID         string  `json:"job_id"`
	JobName       string  `json:"job_name"`
	InstallerID   string  `json:"installer_id"`
	InstallerName string  `json:"installer_name"`
	StartDate     string  `json:"start_date"` // YYYY-MM-DD
	EndDate       string  `json:"end_date"`   // YYYY-MM-DD，包含当天
	DurationDays  int     `json:"duration_days"`
	Revenue       float64 `json:"revenue"`
	RevenueBucket string  `json:"revenue_bucket"`
}
