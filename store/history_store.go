package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"insightboard/api/database"
	"insightboard/api/models"
)

// HistoryStore keeps the append-only per-day metric history in
// ClickHouse. Every sync re-inserts the trailing window; reads dedupe by
// taking the most recently fetched value for each (metric, date).
type HistoryStore struct {
	DB *database.ClickHouseClient
}

func NewHistoryStore(chClient *database.ClickHouseClient) *HistoryStore {
	return &HistoryStore{DB: chClient}
}

func (s *HistoryStore) InsertDailyMetrics(ctx context.Context, websiteID int, points []models.DailyMetric) error {
	if len(points) == 0 {
		return nil
	}

	fetchedAt := time.Now().UTC()

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO metric_history (website_id, metric, date, value, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, p := range points {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			log.Printf("Skipping history point with bad date %q: %v", p.Date, err)
			continue
		}
		if err := batch.Append(int64(websiteID), p.Metric, date, p.Value, fetchedAt); err != nil {
			log.Printf("Error appending history point to batch (metric %s, date %s): %v", p.Metric, p.Date, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Inserted %d history points for website %d.", len(points), websiteID)
	return nil
}

// GetSeries returns the daily series of one metric for the trailing
// window, newest fetch winning where syncs overlap.
func (s *HistoryStore) GetSeries(ctx context.Context, websiteID int, metric string, days int) ([]models.HistoryPoint, error) {
	query := `
		SELECT date, argMax(value, fetched_at) AS value
		FROM metric_history
		WHERE website_id = ? AND metric = ? AND date >= today() - ?
		GROUP BY date
		ORDER BY date ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, int64(websiteID), metric, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric history: %w", err)
	}
	defer rows.Close()

	var points []models.HistoryPoint
	for rows.Next() {
		var (
			date  time.Time
			value float64
		)
		if err := rows.Scan(&date, &value); err != nil {
			log.Printf("Error scanning history row: %v", err)
			continue
		}
		points = append(points, models.HistoryPoint{
			Date:  date.Format("2006-01-02"),
			Value: value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during metric history query: %w", err)
	}
	return points, nil
}
