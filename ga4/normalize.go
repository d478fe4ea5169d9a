package ga4

import (
	"strconv"
	"time"

	"insightboard/api/models"
)

// overviewMetrics is the fixed metric set of the overview report, in the
// positional order the snapshot builder expects. The set is larger than
// GA4's 10-metrics-per-request limit on purpose; the client fetches it in
// chunks and merges positionally.
var overviewMetrics = []string{
	"sessions",
	"totalUsers",
	"newUsers",
	"engagedSessions",
	"screenPageViews",
	"eventCount",
	"conversions",
	"engagementRate",
	"bounceRate",
	"averageSessionDuration",
	"sessionsPerUser",
	"totalRevenue",
}

// maxMetricsPerRequest is GA4's hard limit on metrics per runReport call.
const maxMetricsPerRequest = 10

// dailyMetrics maps GA4 API metric names to the snake_case names used in
// the metric_history table. At most 10 entries so the daily report fits a
// single request.
var dailyMetrics = []struct{ api, name string }{
	{"sessions", "sessions"},
	{"totalUsers", "total_users"},
	{"newUsers", "new_users"},
	{"screenPageViews", "page_views"},
	{"eventCount", "event_count"},
	{"conversions", "conversions"},
	{"totalRevenue", "revenue"},
	{"bounceRate", "bounce_rate"},
	{"engagementRate", "engagement_rate"},
}

// chunkMetrics splits a metric list into runReport-sized chunks.
func chunkMetrics(names []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(names); start += size {
		end := start + size
		if end > len(names) {
			end = len(names)
		}
		chunks = append(chunks, names[start:end])
	}
	return chunks
}

// parseMetricValue converts a GA4 metric cell to a float. Blank or
// unparseable cells count as zero rather than failing the whole sync.
func parseMetricValue(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// pctDelta computes the percent change from prev to cur. A zero previous
// period would divide by zero: no movement stays 0, any movement from
// zero reads as 100.
func pctDelta(cur, prev float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return (cur - prev) / prev * 100
}

// buildSnapshot maps the merged positional metric values of the current
// and previous windows into the fixed-shape snapshot record. Short slices
// read as zero so an empty report still yields a valid snapshot.
func buildSnapshot(cur, prev []float64) *models.MetricsSnapshot {
	at := func(vals []float64, i int) float64 {
		if i >= len(vals) {
			return 0
		}
		return vals[i]
	}
	mv := func(i int) models.MetricValue {
		c, p := at(cur, i), at(prev, i)
		return models.MetricValue{Current: c, Previous: p, DeltaPct: pctDelta(c, p)}
	}

	return &models.MetricsSnapshot{
		Sessions:           mv(0),
		TotalUsers:         mv(1),
		NewUsers:           mv(2),
		EngagedSessions:    mv(3),
		PageViews:          mv(4),
		EventCount:         mv(5),
		Conversions:        mv(6),
		EngagementRate:     mv(7),
		BounceRate:         mv(8),
		AvgSessionDuration: mv(9),
		SessionsPerUser:    mv(10),
		Revenue:            mv(11),
	}
}

// reportWindows returns the current and previous 28-day windows, both
// ending before today so partial days never skew deltas.
func reportWindows(now time.Time) (curStart, curEnd, prevStart, prevEnd string) {
	const layout = "2006-01-02"
	end := now.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -27)
	pEnd := start.AddDate(0, 0, -1)
	pStart := pEnd.AddDate(0, 0, -27)
	return start.Format(layout), end.Format(layout), pStart.Format(layout), pEnd.Format(layout)
}

// ga4Date converts GA4's YYYYMMDD date dimension value to YYYY-MM-DD.
// Values that don't look like dates pass through unchanged.
func ga4Date(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
}
