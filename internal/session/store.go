// Package session 保存每个操作员会话的 override 和排班结果快照。
//
// 每次会改变状态的请求都先通过 NextSeq 领取一个递增的序号，结果只有在序号仍然是最新的
// 时候才会被写入，较慢的旧请求的结果会被丢弃并返回 ErrStale。
package session

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

const (
	ViewOverrides = "overrides"
	ViewSchedule  = "schedule"
)

var ErrStale = errors.New("a newer request has superseded this one")

type Store interface {
	// NextSeq 为 view 分配一个新的序号，之前分配的序号都会过期
	NextSeq(ctx context.Context, sessionID, view string) (int64, error)

	Overrides(ctx context.Context, sessionID string) ([]domain.Override, error)
	CommitOverrides(ctx context.Context, sessionID string, seq int64, overrides []domain.Override) error

	Schedule(ctx context.Context, sessionID string) ([]domain.ScheduleItem, error)
	CommitSchedule(ctx context.Context, sessionID string, seq int64, items []domain.ScheduleItem) error
}
