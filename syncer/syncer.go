// Package syncer pulls a website's GA4 data and persists it: the
// normalized snapshot to Postgres, the daily series to ClickHouse. Both
// the on-demand sync endpoint and the background scheduler go through it.
package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"

	"insightboard/api/ga4"
	"insightboard/api/models"
	"insightboard/api/store"
	"insightboard/api/utils"
)

// ErrNoProperty means the website isn't bound to a GA4 property yet.
var ErrNoProperty = fmt.Errorf("website has no GA4 property configured")

// ErrNotConnected means the owning user has no Google token stored.
var ErrNotConnected = fmt.Errorf("google account is not connected")

// historyDays is the trailing window of daily points refreshed per sync.
const historyDays = 90

type Service struct {
	Users    *store.UserStore
	Websites *store.WebsiteStore
	Metrics  *store.MetricsStore
	History  *store.HistoryStore
	GA       *ga4.Client
	OAuth    *oauth2.Config
}

func NewService(users *store.UserStore, websites *store.WebsiteStore, metrics *store.MetricsStore, history *store.HistoryStore, ga *ga4.Client, oauth *oauth2.Config) *Service {
	return &Service{
		Users:    users,
		Websites: websites,
		Metrics:  metrics,
		History:  history,
		GA:       ga,
		OAuth:    oauth,
	}
}

// TokenSourceFor builds a refreshing, self-persisting token source for a
// website's owner.
func (s *Service) TokenSourceFor(ctx context.Context, userID int) (oauth2.TokenSource, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.GoogleConnected() {
		return nil, ErrNotConnected
	}
	tok, err := utils.UnmarshalToken(user.GoogleToken)
	if err != nil {
		return nil, err
	}
	return store.NewSavingTokenSource(ctx, s.OAuth, s.Users, userID, tok), nil
}

// SyncWebsite fetches and persists fresh metrics for one website. The
// snapshot upsert must succeed; a history insert failure only loses trend
// resolution, so it is logged and the sync still counts.
func (s *Service) SyncWebsite(ctx context.Context, website *models.Website) (*models.MetricsSnapshot, error) {
	if website.PropertyID == "" {
		return nil, ErrNoProperty
	}

	ts, err := s.TokenSourceFor(ctx, website.UserID)
	if err != nil {
		return nil, err
	}

	snap, err := s.GA.FetchSnapshot(ctx, ts, website.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GA4 snapshot: %w", err)
	}
	snap.WebsiteID = website.ID

	if err := s.Metrics.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	points, err := s.GA.FetchDailySeries(ctx, ts, website.PropertyID, historyDays)
	if err != nil {
		log.Printf("Daily series fetch failed for website %d: %v", website.ID, err)
	} else if err := s.History.InsertDailyMetrics(ctx, website.ID, points); err != nil {
		log.Printf("History insert failed for website %d: %v", website.ID, err)
	}

	if err := s.Websites.TouchLastSynced(ctx, website.ID); err != nil {
		log.Printf("Failed to stamp last_synced_at for website %d: %v", website.ID, err)
	}

	log.Printf("Synced website %d (property %s): %d sessions in current window.",
		website.ID, website.PropertyID, int64(snap.Sessions.Current))
	return snap, nil
}

// SyncAll walks every property-bound website. Per-site failures are
// logged and skipped; one broken token must not starve the rest.
func (s *Service) SyncAll(ctx context.Context) {
	websites, err := s.Websites.ListSyncable(ctx)
	if err != nil {
		log.Printf("Scheduled sync: failed to list websites: %v", err)
		return
	}

	for i := range websites {
		w := &websites[i]
		siteCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		if _, err := s.SyncWebsite(siteCtx, w); err != nil {
			log.Printf("Scheduled sync failed for website %d: %v", w.ID, err)
		}
		cancel()

		if ctx.Err() != nil {
			return
		}
	}
}
