package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPublishPayload(t *testing.T) {
	payload, err := BuildPublishPayload(baseSchedule(), "https://example.webhook.office.com/hook", "http://localhost:8000/export/ics", "Weekly Installation Schedule")

	require.NoError(t, err)
	assert.Equal(t, "https://example.webhook.office.com/hook", payload.WebhookURL)
	assert.Equal(t, "Weekly Installation Schedule", payload.Title)
	assert.Equal(t, "http://localhost:8000/export/ics", payload.ICSURL)
	assert.Equal(t, []string{
		"Rooftop Solar – Acme Installers (2024-03-04)",
		"EV Charger – BrightBuild (2024-03-04)",
	}, payload.Lines)
}

func TestBuildPublishPayload_EmptySchedule(t *testing.T) {
	_, err := BuildPublishPayload(nil, "https://example.webhook.office.com/hook", "http://localhost:8000/export/ics", "Weekly Installation Schedule")

	assert.ErrorIs(t, err, ErrEmptySchedule)
	assert.Equal(t, "build a schedule before publishing", err.Error())
}
