// Package ga4 wraps the Google Analytics Data and Admin APIs: it pulls
// report data for a property and normalizes the raw dimension/metric
// arrays into the fixed snapshot shape the rest of the system stores.
package ga4

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	analyticsadmin "google.golang.org/api/analyticsadmin/v1beta"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"insightboard/api/models"
)

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// FetchSnapshot pulls the overview metrics for the current and previous
// 28-day windows plus the top-pages/channels/countries breakdowns, and
// returns them as one normalized snapshot. The overview metric set
// exceeds GA4's 10-metric limit, so it is fetched in chunks and merged by
// date-range key.
func (c *Client) FetchSnapshot(ctx context.Context, ts oauth2.TokenSource, propertyID string) (*models.MetricsSnapshot, error) {
	svc, err := analyticsdata.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics data service: %w", err)
	}

	prop := "properties/" + propertyID
	curStart, curEnd, prevStart, prevEnd := reportWindows(time.Now().UTC())

	var cur, prev []float64
	for _, chunk := range chunkMetrics(overviewMetrics, maxMetricsPerRequest) {
		metrics := make([]*analyticsdata.Metric, 0, len(chunk))
		for _, name := range chunk {
			metrics = append(metrics, &analyticsdata.Metric{Name: name})
		}

		req := &analyticsdata.RunReportRequest{
			DateRanges: []*analyticsdata.DateRange{
				{StartDate: curStart, EndDate: curEnd},
				{StartDate: prevStart, EndDate: prevEnd},
			},
			Metrics: metrics,
		}

		resp, err := svc.Properties.RunReport(prop, req).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("runReport failed for property %s: %w", propertyID, err)
		}

		chunkCur, chunkPrev := overviewRangeValues(resp, len(chunk))
		cur = append(cur, chunkCur...)
		prev = append(prev, chunkPrev...)
	}

	if len(cur) != len(overviewMetrics) || len(prev) != len(overviewMetrics) {
		return nil, fmt.Errorf("merged %d/%d overview values, want %d", len(cur), len(prev), len(overviewMetrics))
	}

	snap := buildSnapshot(cur, prev)
	snap.PeriodStart = curStart
	snap.PeriodEnd = curEnd
	snap.FetchedAt = time.Now().UTC()

	window := &analyticsdata.DateRange{StartDate: curStart, EndDate: curEnd}
	if snap.TopPages, err = c.topN(ctx, svc, prop, window, "pagePath", "screenPageViews"); err != nil {
		return nil, err
	}
	if snap.Channels, err = c.topN(ctx, svc, prop, window, "sessionDefaultChannelGroup", "sessions"); err != nil {
		return nil, err
	}
	if snap.Countries, err = c.topN(ctx, svc, prop, window, "country", "activeUsers"); err != nil {
		return nil, err
	}

	return snap, nil
}

// overviewRangeValues splits a two-date-range report into per-range value
// slices. With multiple date ranges GA4 keys each row by the implicit
// "dateRange" dimension ("date_range_0" is the first range given).
// Missing ranges (no data) come back zero-filled.
func overviewRangeValues(resp *analyticsdata.RunReportResponse, metricCount int) (cur, prev []float64) {
	cur = make([]float64, metricCount)
	prev = make([]float64, metricCount)

	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		dest := cur
		if row.DimensionValues[0].Value == "date_range_1" {
			dest = prev
		}
		for i, mv := range row.MetricValues {
			if i >= metricCount {
				break
			}
			dest[i] = parseMetricValue(mv.Value)
		}
	}
	return cur, prev
}

// topN runs a single-dimension report ordered by the metric, limit 10.
func (c *Client) topN(ctx context.Context, svc *analyticsdata.Service, prop string, window *analyticsdata.DateRange, dimension, metric string) ([]models.DimensionStat, error) {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{window},
		Dimensions: []*analyticsdata.Dimension{{Name: dimension}},
		Metrics:    []*analyticsdata.Metric{{Name: metric}},
		OrderBys: []*analyticsdata.OrderBy{
			{Metric: &analyticsdata.MetricOrderBy{MetricName: metric}, Desc: true},
		},
		Limit: 10,
	}

	resp, err := svc.Properties.RunReport(prop, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("runReport failed for dimension %s: %w", dimension, err)
	}

	stats := make([]models.DimensionStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 || len(row.MetricValues) == 0 {
			continue
		}
		stats = append(stats, models.DimensionStat{
			Label: row.DimensionValues[0].Value,
			Value: parseMetricValue(row.MetricValues[0].Value),
		})
	}
	return stats, nil
}

// FetchDailySeries pulls per-day values of the history metric set for the
// trailing window. Fits in one request: the set stays under the 10-metric
// limit.
func (c *Client) FetchDailySeries(ctx context.Context, ts oauth2.TokenSource, propertyID string, days int) ([]models.DailyMetric, error) {
	svc, err := analyticsdata.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics data service: %w", err)
	}

	metrics := make([]*analyticsdata.Metric, 0, len(dailyMetrics))
	for _, m := range dailyMetrics {
		metrics = append(metrics, &analyticsdata.Metric{Name: m.api})
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{
			{StartDate: fmt.Sprintf("%ddaysAgo", days), EndDate: "yesterday"},
		},
		Dimensions: []*analyticsdata.Dimension{{Name: "date"}},
		Metrics:    metrics,
		OrderBys: []*analyticsdata.OrderBy{
			{Dimension: &analyticsdata.DimensionOrderBy{DimensionName: "date"}},
		},
		Limit: int64(days) + 1,
	}

	resp, err := svc.Properties.RunReport("properties/"+propertyID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("daily runReport failed for property %s: %w", propertyID, err)
	}

	var points []models.DailyMetric
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		date := ga4Date(row.DimensionValues[0].Value)
		for i, mv := range row.MetricValues {
			if i >= len(dailyMetrics) {
				break
			}
			points = append(points, models.DailyMetric{
				Date:   date,
				Metric: dailyMetrics[i].name,
				Value:  parseMetricValue(mv.Value),
			})
		}
	}
	return points, nil
}

// ListProperties lists the GA4 properties visible to the user's token so
// the UI can offer a picker. Property resource names ("properties/123")
// are trimmed to the bare id.
func (c *Client) ListProperties(ctx context.Context, ts oauth2.TokenSource) ([]models.GA4Property, error) {
	svc, err := analyticsadmin.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics admin service: %w", err)
	}

	var props []models.GA4Property
	pageToken := ""
	for {
		call := svc.AccountSummaries.List().PageSize(200).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list account summaries: %w", err)
		}

		for _, account := range resp.AccountSummaries {
			for _, p := range account.PropertySummaries {
				props = append(props, models.GA4Property{
					PropertyID:  trimPropertyResource(p.Property),
					DisplayName: p.DisplayName,
					Account:     account.DisplayName,
				})
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return props, nil
}

func trimPropertyResource(name string) string {
	const prefix = "properties/"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
