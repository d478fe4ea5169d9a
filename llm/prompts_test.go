package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"insightboard/api/models"
)

func sampleSnapshot() *models.MetricsSnapshot {
	return &models.MetricsSnapshot{
		PeriodStart: "2026-02-15",
		PeriodEnd:   "2026-03-14",
		Sessions:    models.MetricValue{Current: 1500, Previous: 1000, DeltaPct: 50},
		BounceRate:  models.MetricValue{Current: 0.42, Previous: 0.48, DeltaPct: -12.5},
		TopPages: []models.DimensionStat{
			{Label: "/pricing", Value: 820},
		},
		Channels: []models.DimensionStat{
			{Label: "Organic Search", Value: 640},
		},
	}
}

func TestFormatMetricsTable(t *testing.T) {
	out := formatMetricsTable(sampleSnapshot())

	assert.Contains(t, out, "2026-02-15 to 2026-03-14")
	assert.Contains(t, out, "Sessions")
	assert.Contains(t, out, "+50.0%")
	assert.Contains(t, out, "-12.5%")
	assert.Contains(t, out, "/pricing")
	assert.Contains(t, out, "Organic Search")
	assert.NotContains(t, out, "Countries", "empty dimension sections are omitted")
}

func TestBuildPlanPrompt(t *testing.T) {
	insights := []models.Insight{
		{Title: "Organic traffic is surging", Description: "Sessions grew 40%.", Category: "traffic", Impact: "high"},
	}

	out := BuildPlanPrompt(sampleSnapshot(), insights)
	assert.Contains(t, out, "Findings to address:")
	assert.Contains(t, out, "1. [traffic/high impact] Organic traffic is surging: Sessions grew 40%.")
}

func TestBuildReportPrompt(t *testing.T) {
	trends := map[string][]models.HistoryPoint{
		"sessions": {{Date: "2026-03-13", Value: 55}, {Date: "2026-03-14", Value: 61}},
	}

	out := BuildReportPrompt(sampleSnapshot(), trends, "Why did traffic spike last week?")
	assert.Contains(t, out, "sessions: 2026-03-13=55.00 2026-03-14=61.00")
	assert.True(t, strings.HasSuffix(out, "Question: Why did traffic spike last week?"))
}

func TestBuildReportPromptNoTrends(t *testing.T) {
	out := BuildReportPrompt(sampleSnapshot(), nil, "How are we doing?")
	assert.NotContains(t, out, "Daily trends:")
	assert.Contains(t, out, "Question: How are we doing?")
}
