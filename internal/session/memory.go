package session

import (
	"context"
	"slices"
	"sync"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

type memorySession struct {
	seq       map[string]int64
	overrides []domain.Override
	schedule  []domain.ScheduleItem
}

// MemoryStore 是单进程使用的实现，没有过期时间
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

func (s *MemoryStore) get(sessionID string) *memorySession {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{seq: make(map[string]int64)}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *MemoryStore) NextSeq(_ context.Context, sessionID, view string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	sess.seq[view]++
	return sess.seq[view], nil
}

func (s *MemoryStore) Overrides(_ context.Context, sessionID string) ([]domain.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.get(sessionID).overrides), nil
}

func (s *MemoryStore) CommitOverrides(_ context.Context, sessionID string, seq int64, overrides []domain.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess.seq[ViewOverrides] != seq {
		return ErrStale
	}
	sess.overrides = slices.Clone(overrides)
	return nil
}

func (s *MemoryStore) Schedule(_ context.Context, sessionID string) ([]domain.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.get(sessionID).schedule), nil
}

func (s *MemoryStore) CommitSchedule(_ context.Context, sessionID string, seq int64, items []domain.ScheduleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(sessionID)
	if sess.seq[ViewSchedule] != seq {
		return ErrStale
	}
	sess.schedule = slices.Clone(items)
	return nil
}
