package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

func TestMemoryStore_LatestSequenceWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	slow, err := s.NextSeq(ctx, "sess-1", ViewSchedule)
	require.NoError(t, err)
	fast, err := s.NextSeq(ctx, "sess-1", ViewSchedule)
	require.NoError(t, err)
	assert.Greater(t, fast, slow)

	newer := []domain.ScheduleItem{{JobID: "JOB-001", StartDate: "2024-03-05"}}
	require.NoError(t, s.CommitSchedule(ctx, "sess-1", fast, newer))

	older := []domain.ScheduleItem{{JobID: "JOB-001", StartDate: "2024-03-01"}}
	err = s.CommitSchedule(ctx, "sess-1", slow, older)
	assert.ErrorIs(t, err, ErrStale)

	got, err := s.Schedule(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestMemoryStore_ViewsAndSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	scheduleSeq, _ := s.NextSeq(ctx, "sess-1", ViewSchedule)
	overridesSeq, _ := s.NextSeq(ctx, "sess-1", ViewOverrides)
	otherSeq, _ := s.NextSeq(ctx, "sess-2", ViewOverrides)

	require.NoError(t, s.CommitSchedule(ctx, "sess-1", scheduleSeq, []domain.ScheduleItem{{JobID: "JOB-001"}}))
	require.NoError(t, s.CommitOverrides(ctx, "sess-1", overridesSeq, []domain.Override{{JobID: "JOB-001"}}))
	require.NoError(t, s.CommitOverrides(ctx, "sess-2", otherSeq, []domain.Override{{JobID: "JOB-002"}}))

	got, err := s.Overrides(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Override{{JobID: "JOB-001"}}, got)
}

func TestMemoryStore_ReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seq, _ := s.NextSeq(ctx, "sess-1", ViewOverrides)
	overrides := []domain.Override{{JobID: "JOB-001", InstallerID: "inst-100"}}
	require.NoError(t, s.CommitOverrides(ctx, "sess-1", seq, overrides))

	overrides[0].InstallerID = "mutated"
	got, _ := s.Overrides(ctx, "sess-1")
	assert.Equal(t, "inst-100", got[0].InstallerID)

	got[0].InstallerID = "mutated again"
	again, _ := s.Overrides(ctx, "sess-1")
	assert.Equal(t, "inst-100", again[0].InstallerID)
}

func TestMemoryStore_EmptySession(t *testing.T) {
	s := NewMemoryStore()

	items, err := s.Schedule(context.Background(), "unknown")

	require.NoError(t, err)
	assert.Empty(t, items)
}
