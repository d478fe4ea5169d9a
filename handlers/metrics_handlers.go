package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/models"
	"insightboard/api/store"
	"insightboard/api/syncer"
	"insightboard/api/utils"
)

type MetricsHandlers struct {
	WebsiteStore *store.WebsiteStore
	MetricsStore *store.MetricsStore
	HistoryStore *store.HistoryStore
	Syncer       *syncer.Service
}

func NewMetricsHandlers(websiteStore *store.WebsiteStore, metricsStore *store.MetricsStore, historyStore *store.HistoryStore, sync *syncer.Service) *MetricsHandlers {
	return &MetricsHandlers{
		WebsiteStore: websiteStore,
		MetricsStore: metricsStore,
		HistoryStore: historyStore,
		Syncer:       sync,
	}
}

// SyncWebsite triggers an on-demand GA4 pull for one website.
func (h *MetricsHandlers) SyncWebsite(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 60*time.Second)
	defer cancel()

	snap, err := h.Syncer.SyncWebsite(ctx, website)
	if err != nil {
		switch err {
		case syncer.ErrNoProperty:
			c.JSON(http.StatusConflict, gin.H{"error": "Website has no GA4 property configured"})
		case syncer.ErrNotConnected:
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Google account is not connected"})
		default:
			log.Printf("ERROR: Sync failed for website %d: %v", website.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch metrics from Google Analytics"})
		}
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetMetrics returns the latest snapshot for a website.
func (h *MetricsHandlers) GetMetrics(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	snap, err := h.MetricsStore.GetSnapshot(ctx, website.ID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Website has not been synced yet"})
			return
		}
		log.Printf("ERROR: Failed to load snapshot for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load metrics"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetHistory returns the daily trend series of one metric.
func (h *MetricsHandlers) GetHistory(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	metric := c.Query("metric")
	if !models.HistoryMetrics[metric] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric query parameter is required and must be a known metric name"})
		return
	}

	days := 0
	if daysParam := c.Query("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter. Must be an integer."})
			return
		}
		days = parsed
	}
	days = utils.ClampHistoryDays(days)

	ctx, cancel := withTimeout(c, 10*time.Second)
	defer cancel()

	points, err := h.HistoryStore.GetSeries(ctx, website.ID, metric, days)
	if err != nil {
		log.Printf("ERROR: Failed to load history for website %d metric %s: %v", website.ID, metric, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load metric history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric": metric,
		"days":   days,
		"points": points,
	})
}
