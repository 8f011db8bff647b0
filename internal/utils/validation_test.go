package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

var roster = []domain.Installer{
	{ID: "inst-100", Name: "Acme Installers", Tier: "Gold", MatchScore: 92},
	{ID: "inst-101", Name: "BrightBuild", Tier: "Silver", MatchScore: 85},
}

func TestValidateOverride_RequiresInstallerAndDate(t *testing.T) {
	err := ValidateOverride(domain.Override{JobID: "JOB-001", StartDate: "2024-01-01"}, roster)
	assert.ErrorIs(t, err, ErrOverrideIncomplete)

	err = ValidateOverride(domain.Override{JobID: "JOB-001", InstallerID: "inst-100"}, roster)
	assert.ErrorIs(t, err, ErrOverrideIncomplete)
	assert.Equal(t, "installer and start date are required", err.Error())
}

func TestValidateOverride_BadDate(t *testing.T) {
	err := ValidateOverride(domain.Override{JobID: "JOB-001", InstallerID: "inst-100", StartDate: "01/02/2024"}, roster)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOverrideIncomplete)
}

func TestValidateOverride_UnknownInstaller(t *testing.T) {
	err := ValidateOverride(domain.Override{JobID: "JOB-001", InstallerID: "inst-999", StartDate: "2024-01-01"}, roster)
	assert.ErrorContains(t, err, "inst-999")
}

func TestValidateOverride_OK(t *testing.T) {
	err := ValidateOverride(domain.Override{JobID: "JOB-001", InstallerID: "inst-101", StartDate: "2024-01-01"}, roster)
	assert.NoError(t, err)
}

func TestValidateScheduleItem(t *testing.T) {
	item := domain.ScheduleItem{JobID: "JOB-001", StartDate: "2024-03-04", EndDate: "2024-03-06", DurationDays: 3}
	assert.NoError(t, ValidateScheduleItem(item))

	single := domain.ScheduleItem{JobID: "JOB-003", StartDate: "2024-03-04", EndDate: "2024-03-04", DurationDays: 1}
	assert.NoError(t, ValidateScheduleItem(single))

	reversed := domain.ScheduleItem{JobID: "JOB-002", StartDate: "2024-03-05", EndDate: "2024-03-04", DurationDays: 1}
	assert.Error(t, ValidateScheduleItem(reversed))

	inconsistent := domain.ScheduleItem{JobID: "JOB-004", StartDate: "2024-03-04", EndDate: "2024-03-05", DurationDays: 4}
	assert.Error(t, ValidateScheduleItem(inconsistent))

	malformed := domain.ScheduleItem{JobID: "JOB-005", StartDate: "2024-3-4", EndDate: "2024-03-05", DurationDays: 2}
	assert.Error(t, ValidateScheduleItem(malformed))
}

func TestValidateUniqueOverrides(t *testing.T) {
	assert.NoError(t, ValidateUniqueOverrides([]domain.Override{{JobID: "J1"}, {JobID: "J2"}}))
	assert.Error(t, ValidateUniqueOverrides([]domain.Override{{JobID: "J1"}, {JobID: "J1"}}))
}
