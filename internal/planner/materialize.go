package planner

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/revenue"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

// Materialize 将 override 应用到远程服务算出的排班结果上。
//
// 对于存在 override 的 job，override 的安装商和开始日期优先，天数沿用 base 中的值，
// 结束日期重新计算。没出现在 base 中的 job 的 override 会被忽略，安装商不在 installers
// 中的 override 也会被忽略。revenue bucket 总是根据 revenue 重新计算。
func Materialize(base []domain.ScheduleItem, overrides []domain.Override, installers []domain.Installer) ([]domain.ScheduleItem, error) {
	overridesByJob := make(map[string]domain.Override, len(overrides))
	for _, o := range overrides {
		overridesByJob[o.JobID] = o
	}

	installersByID := make(map[string]domain.Installer, len(installers))
	for _, i := range installers {
		installersByID[i.ID] = i
	}

	result := make([]domain.ScheduleItem, 0, len(base))
	for _, item := range base {
		presented := item
		presented.RevenueBucket = revenue.Bucket(item.Revenue)

		o, ok := overridesByJob[item.JobID]
		if !ok {
			result = append(result, presented)
			continue
		}

		installer, ok := installersByID[o.InstallerID]
		if !ok {
			result = append(result, presented)
			continue
		}

		start, err := time.Parse(utils.DateLayout, o.StartDate)
		if err != nil {
			return nil, fmt.Errorf("job %s 的 override 开始日期无效: %w", o.JobID, err)
		}

		presented.InstallerID = installer.ID
		presented.InstallerName = installer.Name
		presented.StartDate = start.Format(utils.DateLayout)
		presented.EndDate = endDate(start, item.DurationDays).Format(utils.DateLayout)

		result = append(result, presented)
	}

	return result, nil
}

// endDate 返回持续 days 天的任务的最后一天，days 至少为 1
func endDate(start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return start.AddDate(0, 0, days-1)
}
