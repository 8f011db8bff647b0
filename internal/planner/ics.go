package planner

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

const icsProductID = "-//InstallPlanner//EN"

// BuildICS 将排班结果导出为 iCalendar 文件，每个 job 一个全天事件，DTEND 同样是开区间
func BuildICS(items []domain.ScheduleItem, calendarName string, now time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(calendarName)

	for _, item := range items {
		start, err := time.Parse(utils.DateLayout, item.StartDate)
		if err != nil {
			return nil, fmt.Errorf("job %s 的 start_date 无效: %w", item.JobID, err)
		}
		end, err := time.Parse(utils.DateLayout, item.EndDate)
		if err != nil {
			return nil, fmt.Errorf("job %s 的 end_date 无效: %w", item.JobID, err)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s@installplanner", item.JobID, item.InstallerID))
		event.SetDtStampTime(now.UTC())
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s - %s", item.JobName, item.InstallerName))
		event.SetDescription(fmt.Sprintf("Revenue bucket: %s\nDuration: %d day(s)", item.RevenueBucket, item.DurationDays))
	}

	return []byte(cal.Serialize()), nil
}
