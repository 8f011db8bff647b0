package gateway

import "github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"

// 远程服务的响应先解码到这些结构体里。字段都是指针，这样才能区分缺失的字段和零值

type installerWire struct {
	ID         *string  `json:"id" validate:"required"`
	Name       *string  `json:"name" validate:"required"`
	Tier       *string  `json:"tier" validate:"required"`
	MatchScore *float64 `json:"match_score" validate:"required,min=0,max=100"`
}

func (w installerWire) toDomain() domain.Installer {
	return domain.Installer{
		ID:         *w.ID,
		Name:       *w.Name,
		Tier:       *w.Tier,
		MatchScore: *w.MatchScore,
	}
}

type jobWire struct {
	JobID        *string  `json:"job_id" validate:"required"`
	Name         *string  `json:"name" validate:"required"`
	Revenue      *float64 `json:"revenue" validate:"required,min=0"`
	DurationDays *int     `json:"duration_days" validate:"required,min=1"`
	City         *string  `json:"city" validate:"required"`
}

func (w jobWire) toDomain() domain.Job {
	return domain.Job{
		JobID:        *w.JobID,
		Name:         *w.Name,
		Revenue:      *w.Revenue,
		DurationDays: *w.DurationDays,
		City:         *w.City,
	}
}

type overrideWire struct {
	JobID       *string `json:"job_id" validate:"required"`
	InstallerID *string `json:"installer_id" validate:"required"`
	StartDate   *string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

func (w overrideWire) toDomain() domain.Override {
	return domain.Override{
		JobID:       *w.JobID,
		InstallerID: *w.InstallerID,
		StartDate:   *w.StartDate,
	}
}

type scheduleItemWire struct {
	JobID         *string  `json:"job_id" validate:"required"`
	JobName       *string  `json:"job_name" validate:"required"`
	InstallerID   *string  `json:"installer_id" validate:"required"`
	InstallerName *string  `json:"installer_name" validate:"required"`
	StartDate     *string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       *string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	DurationDays  *int     `json:"duration_days" validate:"required,min=1"`
	Revenue       *float64 `json:"revenue" validate:"required,min=0"`
	RevenueBucket *string  `json:"revenue_bucket" validate:"required"`
}

func (w scheduleItemWire) toDomain() domain.ScheduleItem {
	return domain.ScheduleItem{
		JobID:         *w.JobID,
		JobName:       *w.JobName,
		InstallerID:   *w.InstallerID,
		InstallerName: *w.InstallerName,
		StartDate:     *w.StartDate,
		EndDate:       *w.EndDate,
		DurationDays:  *w.DurationDays,
		Revenue:       *w.Revenue,
		RevenueBucket: *w.RevenueBucket,
	}
}
