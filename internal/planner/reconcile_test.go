package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
)

func TestReconcile_ReplacesExistingOverride(t *testing.T) {
	existing := []domain.Override{{JobID: "J1", InstallerID: "B", StartDate: "2023-12-01"}}
	next := domain.Override{JobID: "J1", InstallerID: "A", StartDate: "2024-01-01"}

	got := Reconcile(existing, next)

	require.Len(t, got, 1)
	assert.Equal(t, next, got[0])
}

func TestReconcile_PreservesOrderAndAppendsLast(t *testing.T) {
	existing := []domain.Override{
		{JobID: "J1", InstallerID: "A", StartDate: "2024-01-01"},
		{JobID: "J2", InstallerID: "B", StartDate: "2024-01-02"},
		{JobID: "J3", InstallerID: "C", StartDate: "2024-01-03"},
	}
	next := domain.Override{JobID: "J2", InstallerID: "D", StartDate: "2024-01-09"}

	got := Reconcile(existing, next)

	require.Len(t, got, 3)
	assert.Equal(t, "J1", got[0].JobID)
	assert.Equal(t, "J3", got[1].JobID)
	assert.Equal(t, next, got[2])
}

func TestReconcile_NewJobIsAppended(t *testing.T) {
	existing := []domain.Override{{JobID: "J1", InstallerID: "A", StartDate: "2024-01-01"}}
	next := domain.Override{JobID: "J2", InstallerID: "A", StartDate: "2024-01-05"}

	got := Reconcile(existing, next)

	require.Len(t, got, 2)
	assert.Equal(t, next, got[1])
}

func TestReconcile_Idempotent(t *testing.T) {
	existing := []domain.Override{
		{JobID: "J1", InstallerID: "A", StartDate: "2024-01-01"},
		{JobID: "J2", InstallerID: "B", StartDate: "2024-01-02"},
	}
	next := domain.Override{JobID: "J1", InstallerID: "C", StartDate: "2024-02-01"}

	once := Reconcile(existing, next)
	twice := Reconcile(once, next)

	assert.ElementsMatch(t, once, twice)
}

func TestReconcile_DoesNotModifyInput(t *testing.T) {
	existing := make([]domain.Override, 2, 8)
	existing[0] = domain.Override{JobID: "J1", InstallerID: "A", StartDate: "2024-01-01"}
	existing[1] = domain.Override{JobID: "J2", InstallerID: "B", StartDate: "2024-01-02"}
	snapshot := append([]domain.Override(nil), existing...)

	_ = Reconcile(existing, domain.Override{JobID: "J1", InstallerID: "Z", StartDate: "2024-03-01"})

	assert.Equal(t, snapshot, existing)
}

func TestDefaultOverride(t *testing.T) {
	installers := []domain.Installer{{ID: "inst-100"}, {ID: "inst-101"}}
	today := time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)

	got := DefaultOverride("J9", nil, installers, today)
	assert.Equal(t, domain.Override{JobID: "J9", InstallerID: "inst-100", StartDate: "2024-05-06"}, got)

	existing := []domain.Override{{JobID: "J9", InstallerID: "inst-101", StartDate: "2024-06-01"}}
	assert.Equal(t, existing[0], DefaultOverride("J9", existing, installers, today))

	empty := DefaultOverride("J9", nil, nil, today)
	assert.Empty(t, empty.InstallerID)
}
