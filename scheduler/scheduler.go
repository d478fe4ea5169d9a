// Package scheduler runs the periodic metrics sync in the background.
package scheduler

import (
	"context"
	"log"
	"os"
	"time"

	"insightboard/api/syncer"
)

const defaultInterval = 6 * time.Hour

type Scheduler struct {
	syncer   *syncer.Service
	interval time.Duration
}

// New reads SYNC_INTERVAL (Go duration, e.g. "6h", "30m") from the
// environment, falling back to 6h.
func New(sync *syncer.Service) *Scheduler {
	interval := defaultInterval
	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("Invalid SYNC_INTERVAL %q, using default %s", raw, defaultInterval)
		} else {
			interval = parsed
		}
	}
	return &Scheduler{syncer: sync, interval: interval}
}

// Run loops until the context is cancelled. The first pass happens one
// interval after startup, not immediately: a deploy restart should not
// hammer the GA4 quota.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("Metrics sync scheduler started (every %s).", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Metrics sync scheduler stopped.")
			return
		case <-ticker.C:
			start := time.Now()
			s.syncer.SyncAll(ctx)
			log.Printf("Scheduled sync pass finished in %s.", time.Since(start).Round(time.Millisecond))
		}
	}
}
