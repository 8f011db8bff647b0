package domain

import "time"

type CalendarEventProps struct {
	RevenueBucket  string `json:"revenue_bucket"`
	RevenueDisplay string `json:"revenue_display"`
	DurationDays   int    `json:"duration_days"`
	InstallerID    string `json:"installer_id"`
	Tooltip        string `json:"tooltip"`
}

// CalendarEvent 的 End 是开区间，即最后一天的下一天零点
type CalendarEvent struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	AllDay        bool               `json:"allDay"`
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}
