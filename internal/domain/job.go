package domain

type Job struct {
	JobID        string  `json:"job_id"`
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	DurationDays int     `json:"duration_days"`
	City         string  `json:"city"`

	// 以下字段由 revenue 推导而来，不会单独存储
	RevenueBucket  string `json:"revenue_bucket"`
	RevenueDisplay string `json:"revenue_display"`
}
