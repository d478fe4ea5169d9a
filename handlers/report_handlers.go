package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insightboard/api/llm"
	"insightboard/api/models"
	"insightboard/api/store"
)

// trendMetrics are the series included in report prompt context.
var trendMetrics = []string{"sessions", "total_users", "page_views", "conversions"}

type ReportHandlers struct {
	WebsiteStore *store.WebsiteStore
	MetricsStore *store.MetricsStore
	HistoryStore *store.HistoryStore
	ReportStore  *store.ReportStore
	LLM          *llm.Client
}

func NewReportHandlers(websiteStore *store.WebsiteStore, metricsStore *store.MetricsStore, historyStore *store.HistoryStore, reportStore *store.ReportStore, llmClient *llm.Client) *ReportHandlers {
	return &ReportHandlers{
		WebsiteStore: websiteStore,
		MetricsStore: metricsStore,
		HistoryStore: historyStore,
		ReportStore:  reportStore,
		LLM:          llmClient,
	}
}

// generationTimeout caps one background report generation.
func generationTimeout() time.Duration {
	if raw := os.Getenv("REPORT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return 2 * time.Minute
}

// CreateReport inserts a pending report and answers it in the
// background. The client gets 202 with the id to poll.
func (h *ReportHandlers) CreateReport(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	// Require at least one sync up front so a doomed report never enters
	// the queue.
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

	report, err := h.ReportStore.CreateReport(ctx, uuid.New().String(), website.ID, req.Question)
	if err != nil {
		log.Printf("ERROR: Failed to create report for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	// Detached from the request context: the client is expected to
	// disconnect and poll.
	go h.generate(report.ID, website.ID, req.Question, snap)

	c.JSON(http.StatusAccepted, report)
}

func (h *ReportHandlers) generate(reportID string, websiteID int, question string, snap *models.MetricsSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout())
	defer cancel()

	trends := make(map[string][]models.HistoryPoint)
	for _, metric := range trendMetrics {
		points, err := h.HistoryStore.GetSeries(ctx, websiteID, metric, 28)
		if err != nil {
			log.Printf("Report %s: trend query for %s failed, answering without it: %v", reportID, metric, err)
			continue
		}
		if len(points) > 0 {
			trends[metric] = points
		}
	}

	answer, err := h.LLM.AnswerReport(ctx, snap, trends, question)

	// The terminal write gets its own context: when the LLM call died of
	// the generation deadline, recording "failed" on that same context
	// would die too and strand the report in pending.
	dbCtx, dbCancel := terminalContext()
	defer dbCancel()

	if err != nil {
		log.Printf("Report %s generation failed: %v", reportID, err)
		if dbErr := h.ReportStore.FailReport(dbCtx, reportID, err.Error()); dbErr != nil {
			log.Printf("Report %s: failed to record failure: %v", reportID, dbErr)
		}
		return
	}

	if err := h.ReportStore.CompleteReport(dbCtx, reportID, answer); err != nil {
		log.Printf("Report %s: failed to record answer: %v", reportID, err)
		return
	}
	log.Printf("Report %s completed.", reportID)
}

// terminalContext is the context for flipping a report to a terminal
// state, detached from the generation context on purpose.
func terminalContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// GetReport is the poll endpoint.
func (h *ReportHandlers) GetReport(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	report, err := h.ReportStore.GetReport(ctx, userID, reportID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Printf("ERROR: Failed to get report %s: %v", reportID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandlers) ListReports(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	reports, err := h.ReportStore.ListReports(ctx, website.ID)
	if err != nil {
		log.Printf("ERROR: Failed to list reports for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandlers) DeleteReport(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	if err := h.ReportStore.DeleteReport(ctx, userID, reportID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Printf("ERROR: Failed to delete report %s: %v", reportID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}
