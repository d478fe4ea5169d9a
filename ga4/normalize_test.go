package ga4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

func TestChunkMetrics(t *testing.T) {
	tests := []struct {
		name  string
		count int
		size  int
		want  []int // chunk lengths
	}{
		{name: "under limit", count: 7, size: 10, want: []int{7}},
		{name: "exact limit", count: 10, size: 10, want: []int{10}},
		{name: "one over", count: 11, size: 10, want: []int{10, 1}},
		{name: "overview set", count: len(overviewMetrics), size: maxMetricsPerRequest, want: []int{10, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := make([]string, tt.count)
			for i := range names {
				names[i] = "m"
			}
			chunks := chunkMetrics(names, tt.size)
			require.Len(t, chunks, len(tt.want))
			total := 0
			for i, chunk := range chunks {
				assert.Len(t, chunk, tt.want[i])
				total += len(chunk)
			}
			assert.Equal(t, tt.count, total)
		})
	}
}

func TestOverviewMetricsFitSnapshot(t *testing.T) {
	// buildSnapshot maps positions 0..11; the metric list must stay in lockstep.
	require.Len(t, overviewMetrics, 12)
	assert.Greater(t, len(overviewMetrics), maxMetricsPerRequest,
		"the overview set is meant to exercise chunked fetching")
}

func TestParseMetricValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"123", 123},
		{"0.4531", 0.4531},
		{"", 0},
		{"not-a-number", 0},
		{"-12.5", -12.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseMetricValue(tt.in), "input %q", tt.in)
	}
}

func TestPctDelta(t *testing.T) {
	tests := []struct {
		name      string
		cur, prev float64
		want      float64
	}{
		{name: "growth", cur: 150, prev: 100, want: 50},
		{name: "decline", cur: 50, prev: 100, want: -50},
		{name: "flat", cur: 100, prev: 100, want: 0},
		{name: "zero previous, zero current", cur: 0, prev: 0, want: 0},
		{name: "zero previous, movement", cur: 42, prev: 0, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pctDelta(tt.cur, tt.prev), 1e-9)
		})
	}
}

func TestBuildSnapshot(t *testing.T) {
	cur := []float64{100, 80, 30, 60, 400, 900, 12, 0.6, 0.4, 95.5, 1.25, 1200}
	prev := []float64{50, 40, 15, 30, 200, 450, 6, 0.5, 0.5, 90, 1.25, 0}

	snap := buildSnapshot(cur, prev)

	assert.Equal(t, 100.0, snap.Sessions.Current)
	assert.Equal(t, 50.0, snap.Sessions.Previous)
	assert.InDelta(t, 100.0, snap.Sessions.DeltaPct, 1e-9)

	assert.Equal(t, 80.0, snap.TotalUsers.Current)
	assert.Equal(t, 400.0, snap.PageViews.Current)
	assert.Equal(t, 12.0, snap.Conversions.Current)
	assert.InDelta(t, 20.0, snap.EngagementRate.DeltaPct, 1e-9)
	assert.InDelta(t, -20.0, snap.BounceRate.DeltaPct, 1e-9)
	assert.InDelta(t, 0.0, snap.SessionsPerUser.DeltaPct, 1e-9)

	// prev revenue was zero, current is not: delta reads 100.
	assert.Equal(t, 1200.0, snap.Revenue.Current)
	assert.InDelta(t, 100.0, snap.Revenue.DeltaPct, 1e-9)
}

func TestBuildSnapshotEmptyReport(t *testing.T) {
	snap := buildSnapshot(nil, nil)
	assert.Equal(t, 0.0, snap.Sessions.Current)
	assert.Equal(t, 0.0, snap.Revenue.DeltaPct)
}

func TestReportWindows(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	curStart, curEnd, prevStart, prevEnd := reportWindows(now)

	assert.Equal(t, "2026-03-14", curEnd, "window ends yesterday")
	assert.Equal(t, "2026-02-15", curStart)
	assert.Equal(t, "2026-02-14", prevEnd, "previous window abuts the current one")
	assert.Equal(t, "2026-01-18", prevStart)
}

func TestGA4Date(t *testing.T) {
	assert.Equal(t, "2026-03-15", ga4Date("20260315"))
	assert.Equal(t, "(other)", ga4Date("(other)"))
	assert.Equal(t, "", ga4Date(""))
}

func TestOverviewRangeValues(t *testing.T) {
	resp := &analyticsdata.RunReportResponse{
		Rows: []*analyticsdata.Row{
			{
				DimensionValues: []*analyticsdata.DimensionValue{{Value: "date_range_0"}},
				MetricValues:    []*analyticsdata.MetricValue{{Value: "100"}, {Value: "0.5"}},
			},
			{
				DimensionValues: []*analyticsdata.DimensionValue{{Value: "date_range_1"}},
				MetricValues:    []*analyticsdata.MetricValue{{Value: "80"}, {Value: ""}},
			},
		},
	}

	cur, prev := overviewRangeValues(resp, 2)
	assert.Equal(t, []float64{100, 0.5}, cur)
	assert.Equal(t, []float64{80, 0}, prev, "blank cells default to zero")
}

func TestOverviewRangeValuesMissingRange(t *testing.T) {
	// A property with no data in the previous window returns only
	// date_range_0 rows; the previous range must come back zero-filled.
	resp := &analyticsdata.RunReportResponse{
		Rows: []*analyticsdata.Row{
			{
				DimensionValues: []*analyticsdata.DimensionValue{{Value: "date_range_0"}},
				MetricValues:    []*analyticsdata.MetricValue{{Value: "7"}, {Value: "3"}},
			},
		},
	}

	cur, prev := overviewRangeValues(resp, 2)
	assert.Equal(t, []float64{7, 3}, cur)
	assert.Equal(t, []float64{0, 0}, prev)
}

func TestOverviewRangeValuesEmptyResponse(t *testing.T) {
	cur, prev := overviewRangeValues(&analyticsdata.RunReportResponse{}, 3)
	assert.Equal(t, []float64{0, 0, 0}, cur)
	assert.Equal(t, []float64{0, 0, 0}, prev)
}

func TestTrimPropertyResource(t *testing.T) {
	assert.Equal(t, "421337007", trimPropertyResource("properties/421337007"))
	assert.Equal(t, "421337007", trimPropertyResource("421337007"))
}
