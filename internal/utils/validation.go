package utils

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

const DateLayout = time.DateOnly

var ErrOverrideIncomplete = errors.New("installer and start date are required")

// ValidateOverride 在调用 reconcile 之前检查操作员输入的 override
func ValidateOverride(o domain.Override, installers []domain.Installer) error {
	if o.InstallerID == "" || o.StartDate == "" {
		return ErrOverrideIncomplete
	}

	if _, err := time.Parse(DateLayout, o.StartDate); err != nil {
		return fmt.Errorf("start date %q must use the YYYY-MM-DD format", o.StartDate)
	}

	known := slices.ContainsFunc(installers, func(i domain.Installer) bool {
		return i.ID == o.InstallerID
	})
	if !known {
		return fmt.Errorf("installer %s does not exist", o.InstallerID)
	}

	return nil
}

// ValidateScheduleItem 检查排班结果的日期是否自洽：结束日期不早于开始日期，且天数和日期区间一致
func ValidateScheduleItem(item domain.ScheduleItem) error {
	start, err := time.Parse(DateLayout, item.StartDate)
	if err != nil {
		return fmt.Errorf("job %s 的 start_date 格式错误", item.JobID)
	}
	end, err := time.Parse(DateLayout, item.EndDate)
	if err != nil {
		return fmt.Errorf("job %s 的 end_date 格式错误", item.JobID)
	}

	if end.Before(start) {
		return fmt.Errorf("job %s 的 end_date 不能早于 start_date", item.JobID)
	}

	// 两端都包含在内，所以要 +1
	days := int(end.Sub(start).Hours()/24) + 1
	if days != item.DurationDays {
		return fmt.Errorf("job %s 的 duration_days 为 %d，但日期区间为 %d 天", item.JobID, item.DurationDays, days)
	}

	return nil
}

// ValidateUniqueOverrides 检查同一个 job 是否出现了多个 override
func ValidateUniqueOverrides(overrides []domain.Override) error {
	seen := make(map[string]bool)
	for _, o := range overrides {
		if seen[o.JobID] {
			return fmt.Errorf("job %s 存在重复的 override", o.JobID)
		}
		seen[o.JobID] = true
	}
	return nil
}
