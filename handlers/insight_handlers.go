package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/llm"
	"insightboard/api/store"
)

type InsightHandlers struct {
	WebsiteStore *store.WebsiteStore
	MetricsStore *store.MetricsStore
	InsightStore *store.InsightStore
	LLM          *llm.Client
}

func NewInsightHandlers(websiteStore *store.WebsiteStore, metricsStore *store.MetricsStore, insightStore *store.InsightStore, llmClient *llm.Client) *InsightHandlers {
	return &InsightHandlers{
		WebsiteStore: websiteStore,
		MetricsStore: metricsStore,
		InsightStore: insightStore,
		LLM:          llmClient,
	}
}

// GenerateInsights runs the LLM over the latest snapshot and replaces the
// website's insights with the fresh set.
func (h *InsightHandlers) GenerateInsights(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 90*time.Second)
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

	insights, err := h.LLM.GenerateInsights(ctx, snap)
	if err != nil {
		log.Printf("ERROR: Insight generation failed for website %d: %v", website.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate insights"})
		return
	}

	saved, err := h.InsightStore.ReplaceInsights(ctx, website.ID, insights)
	if err != nil {
		log.Printf("ERROR: Failed to save insights for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save insights"})
		return
	}

	log.Printf("Generated %d insights for website %d.", len(saved), website.ID)
	c.JSON(http.StatusOK, gin.H{"insights": saved})
}

func (h *InsightHandlers) ListInsights(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	insights, err := h.InsightStore.ListInsights(ctx, website.ID)
	if err != nil {
		log.Printf("ERROR: Failed to list insights for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *InsightHandlers) DeleteInsight(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	insightID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid insight id"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	if err := h.InsightStore.DeleteInsight(ctx, userID, insightID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Insight not found"})
			return
		}
		log.Printf("ERROR: Failed to delete insight %d: %v", insightID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete insight"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Insight deleted"})
}
