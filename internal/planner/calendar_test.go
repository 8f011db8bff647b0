package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

func TestToEvents_SingleDayHasExclusiveEnd(t *testing.T) {
	items := []domain.ScheduleItem{{
		JobID: "JOB-003", JobName: "EV Charger", InstallerID: "inst-101", InstallerName: "BrightBuild",
		StartDate: "2024-03-04", EndDate: "2024-03-04", DurationDays: 1, Revenue: 12_000, RevenueBucket: "10-50k",
	}}

	events, err := ToEvents(items, time.UTC)

	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "JOB-003", ev.ID)
	assert.Equal(t, "EV Charger (BrightBuild)", ev.Title)
	assert.True(t, ev.AllDay)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ev.End)
	assert.Equal(t, "10-50k • 1 day(s)", ev.ExtendedProps.Tooltip)
	assert.Equal(t, "$12,000", ev.ExtendedProps.RevenueDisplay)
	assert.Equal(t, 1, ev.ExtendedProps.DurationDays)
}

func TestToEvents_PreservesOrder(t *testing.T) {
	items := baseSchedule()

	events, err := ToEvents(items, time.UTC)

	require.NoError(t, err)
	require.Len(t, events, len(items))
	for i, item := range items {
		assert.Equal(t, item.JobID, events[i].ID)
	}
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), events[0].End)
}

func TestToEvents_UsesGivenLocation(t *testing.T) {
	loc := time.FixedZone("MST", -7*60*60)
	items := baseSchedule()[:1]

	events, err := ToEvents(items, loc)

	require.NoError(t, err)
	assert.Equal(t, 0, events[0].Start.Hour())
	assert.Equal(t, loc, events[0].Start.Location())
}

func TestToEvents_InvalidDate(t *testing.T) {
	items := []domain.ScheduleItem{{JobID: "JOB-1", StartDate: "soon", EndDate: "2024-03-04", DurationDays: 1}}

	_, err := ToEvents(items, time.UTC)

	assert.ErrorContains(t, err, "JOB-1")
}

func TestToEvents_Empty(t *testing.T) {
	events, err := ToEvents(nil, time.UTC)

	require.NoError(t, err)
	assert.Empty(t, events)
}
