package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/llm"
	"insightboard/api/store"
)

type SummaryHandlers struct {
	WebsiteStore *store.WebsiteStore
	MetricsStore *store.MetricsStore
	SummaryStore *store.SummaryStore
	LLM          *llm.Client
}

func NewSummaryHandlers(websiteStore *store.WebsiteStore, metricsStore *store.MetricsStore, summaryStore *store.SummaryStore, llmClient *llm.Client) *SummaryHandlers {
	return &SummaryHandlers{
		WebsiteStore: websiteStore,
		MetricsStore: metricsStore,
		SummaryStore: summaryStore,
		LLM:          llmClient,
	}
}

// GenerateSummary writes a new executive summary from the latest
// snapshot. The newest summary is the one served; older rows just age out.
func (h *SummaryHandlers) GenerateSummary(c *gin.Context) {
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

	content, err := h.LLM.GenerateSummary(ctx, snap)
	if err != nil {
		log.Printf("ERROR: Summary generation failed for website %d: %v", website.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary"})
		return
	}

	summary, err := h.SummaryStore.CreateSummary(ctx, website.ID, content)
	if err != nil {
		log.Printf("ERROR: Failed to save summary for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SummaryHandlers) GetSummary(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	summary, err := h.SummaryStore.GetLatestSummary(ctx, website.ID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No summary generated yet"})
			return
		}
		log.Printf("ERROR: Failed to load summary for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
