package models

import "time"

// MetricValue is one normalized metric: the current period's value, the
// previous period's value, and the percent change between them.
type MetricValue struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	DeltaPct float64 `json:"delta_pct"`
}

// DimensionStat is one row of a top-N dimension report (top pages,
// channels, countries).
type DimensionStat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MetricsSnapshot is the fixed-shape record produced by normalizing a GA4
// report pull. One snapshot per website is kept current; history goes to
// ClickHouse as per-day rows.
type MetricsSnapshot struct {
	WebsiteID   int    `json:"website_id"`
	PeriodStart string `json:"period_start"` // YYYY-MM-DD, current window
	PeriodEnd   string `json:"period_end"`

	Sessions           MetricValue `json:"sessions"`
	TotalUsers         MetricValue `json:"total_users"`
	NewUsers           MetricValue `json:"new_users"`
	EngagedSessions    MetricValue `json:"engaged_sessions"`
	PageViews          MetricValue `json:"page_views"`
	EventCount         MetricValue `json:"event_count"`
	Conversions        MetricValue `json:"conversions"`
	EngagementRate     MetricValue `json:"engagement_rate"`
	BounceRate         MetricValue `json:"bounce_rate"`
	AvgSessionDuration MetricValue `json:"avg_session_duration"`
	SessionsPerUser    MetricValue `json:"sessions_per_user"`
	Revenue            MetricValue `json:"revenue"`

	TopPages  []DimensionStat `json:"top_pages"`
	Channels  []DimensionStat `json:"channels"`
	Countries []DimensionStat `json:"countries"`

	FetchedAt time.Time `json:"fetched_at"`
}

// DailyMetric is one (date, metric, value) history point appended to
// ClickHouse on every sync.
type DailyMetric struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// HistoryPoint is one element of a per-metric trend series read back from
// ClickHouse.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HistoryMetrics is the set of metric names recorded as daily history and
// accepted by the history endpoint.
var HistoryMetrics = map[string]bool{
	"sessions":        true,
	"total_users":     true,
	"new_users":       true,
	"page_views":      true,
	"event_count":     true,
	"conversions":     true,
	"revenue":         true,
	"bounce_rate":     true,
	"engagement_rate": true,
}
