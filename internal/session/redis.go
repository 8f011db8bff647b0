package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

// 只有当 ARGV[1] 仍然等于 KEYS[1] 中的最新序号时才写入 KEYS[2]
var commitScript = redis.NewScript(`
local latest = redis.call('GET', KEYS[1])
if latest == false or latest ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func seqKey(sessionID, view string) string {
	return fmt.Sprintf("session_%s_seq_%s", sessionID, view)
}

func dataKey(sessionID, view string) string {
	return fmt.Sprintf("session_%s_%s", sessionID, view)
}

func (s *RedisStore) NextSeq(ctx context.Context, sessionID, view string) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, seqKey(sessionID, view))
		pipe.PExpire(ctx, seqKey(sessionID, view), s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStore) Overrides(ctx context.Context, sessionID string) ([]domain.Override, error) {
	var overrides []domain.Override
	if err := s.load(ctx, dataKey(sessionID, ViewOverrides), &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *RedisStore) CommitOverrides(ctx context.Context, sessionID string, seq int64, overrides []domain.Override) error {
	return s.commit(ctx, sessionID, ViewOverrides, seq, overrides)
}

func (s *RedisStore) Schedule(ctx context.Context, sessionID string) ([]domain.ScheduleItem, error) {
	var items []domain.ScheduleItem
	if err := s.load(ctx, dataKey(sessionID, ViewSchedule), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RedisStore) CommitSchedule(ctx context.Context, sessionID string, seq int64, items []domain.ScheduleItem) error {
	return s.commit(ctx, sessionID, ViewSchedule, seq, items)
}

func (s *RedisStore) load(ctx context.Context, key string, v any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// 会话还没有数据
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *RedisStore) commit(ctx context.Context, sessionID, view string, seq int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	keys := []string{seqKey(sessionID, view), dataKey(sessionID, view)}
	ok, err := commitScript.Run(ctx, s.rdb, keys, seq, data, s.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return ErrStale
	}
	return nil
}
