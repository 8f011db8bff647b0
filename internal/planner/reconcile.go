// Package planner 将操作员的 override 合并进排班结果，并把排班结果转换成日历、ICS 和发布消息
package planner

import (
	"time"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

// Reconcile 移除 existing 中与 next 同一个 job 的 override，然后把 next 追加到末尾。
// 调用前 next 必须已经通过 utils.ValidateOverride 的检查。
func Reconcile(existing []domain.Override, next domain.Override) []domain.Override {
	result := make([]domain.Override, 0, len(existing)+1)
	for _, o := range existing {
		if o.JobID != next.JobID {
			result = append(result, o)
		}
	}
	return append(result, next)
}

// FindOverride 返回某个 job 的 override
func FindOverride(overrides []domain.Override, jobID string) (domain.Override, bool) {
	for _, o := range overrides {
		if o.JobID == jobID {
			return o, true
		}
	}
	return domain.Override{}, false
}

// DefaultOverride 返回编辑 override 时的初始值：已有 override 优先，否则使用第一个安装商和今天
func DefaultOverride(jobID string, existing []domain.Override, installers []domain.Installer, today time.Time) domain.Override {
	if o, ok := FindOverride(existing, jobID); ok {
		return o
	}

	o := domain.Override{
		JobID:     jobID,
		StartDate: today.Format(utils.DateLayout),
	}
	if len(installers) > 0 {
		o.InstallerID = installers[0].ID
	}
	return o
}
