package utils

// ClampHistoryDays bounds the requested trend window. Zero or negative
// falls back to the default 28-day window; ClickHouse holds at most a
// year of useful history per metric.
func ClampHistoryDays(days int) int {
	if days <= 0 {
		return 28
	}
	if days > 365 {
		return 365
	}
	return days
}
