package domain

import "time"

// Override 是操作员为某个 job 手动指定的安装商和开始日期
type Override struct {
	JobID       string `json:"job_id"`
	InstallerID string `json:"installer_id"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
}

type OverrideRevision struct {
	ID        int64      `json:"id"`
	SessionID string     `json:"sessionID"`
	JobID     string     `json:"jobID"`
	Overrides []Override `json:"overrides"`
	CreatedAt time.Time  `json:"createdAt"`
}
