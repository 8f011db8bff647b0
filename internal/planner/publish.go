package planner

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

var ErrEmptySchedule = errors.New("build a schedule before publishing")

// BuildPublishPayload 为每个排班结果生成一行摘要，items 为空时返回 ErrEmptySchedule，
// 调用方必须在发出任何网络请求前检查这个错误
func BuildPublishPayload(items []domain.ScheduleItem, webhookURL, icsURL, title string) (domain.PublishPayload, error) {
	if len(items) == 0 {
		return domain.PublishPayload{}, ErrEmptySchedule
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, SummaryLine(item))
	}

	return domain.PublishPayload{
		WebhookURL: webhookURL,
		Title:      title,
		Lines:      lines,
		ICSURL:     icsURL,
	}, nil
}

func SummaryLine(item domain.ScheduleItem) string {
	return fmt.Sprintf("%s – %s (%s)", item.JobName, item.InstallerName, item.StartDate)
}
