package planner

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/revenue"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

// ToEvents 将排班结果一一映射为全天日历事件，顺序不变。
// 日历的结束时间是开区间，所以 End 是 EndDate 的下一天零点，否则单日任务的宽度会是 0。
func ToEvents(items []domain.ScheduleItem, loc *time.Location) ([]domain.CalendarEvent, error) {
	if loc == nil {
		loc = time.Local
	}

	events := make([]domain.CalendarEvent, 0, len(items))
	for _, item := range items {
		start, err := localMidnight(item.StartDate, loc)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", item.JobID, err)
		}
		last, err := localMidnight(item.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", item.JobID, err)
		}

		events = append(events, domain.CalendarEvent{
			ID:     item.JobID,
			Title:  fmt.Sprintf("%s (%s)", item.JobName, item.InstallerName),
			Start:  start,
			End:    last.AddDate(0, 0, 1),
			AllDay: true,
			ExtendedProps: domain.CalendarEventProps{
				RevenueBucket:  item.RevenueBucket,
				RevenueDisplay: revenue.FormatCurrency(item.Revenue),
				DurationDays:   item.DurationDays,
				InstallerID:    item.InstallerID,
				Tooltip:        fmt.Sprintf("%s • %d day(s)", item.RevenueBucket, item.DurationDays),
			},
		})
	}

	return events, nil
}

func localMidnight(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(utils.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期 %q: %w", date, err)
	}
	return d, nil
}
