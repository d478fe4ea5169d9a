package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/llm"
	"insightboard/api/models"
	"insightboard/api/store"
)

type PlanHandlers struct {
	WebsiteStore *store.WebsiteStore
	MetricsStore *store.MetricsStore
	InsightStore *store.InsightStore
	PlanStore    *store.PlanStore
	LLM          *llm.Client
}

func NewPlanHandlers(websiteStore *store.WebsiteStore, metricsStore *store.MetricsStore, insightStore *store.InsightStore, planStore *store.PlanStore, llmClient *llm.Client) *PlanHandlers {
	return &PlanHandlers{
		WebsiteStore: websiteStore,
		MetricsStore: metricsStore,
		InsightStore: insightStore,
		PlanStore:    planStore,
		LLM:          llmClient,
	}
}

// CreatePlan asks the LLM for an implementation plan covering the
// selected insights. Every requested insight must belong to the website.
func (h *PlanHandlers) CreatePlan(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	var req models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := withTimeout(c, 90*time.Second)
	defer cancel()

	insights, err := h.InsightStore.GetInsightsByIDs(ctx, website.ID, req.InsightIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "One or more insights do not belong to this website"})
			return
		}
		log.Printf("ERROR: Failed to load insights for plan on website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load insights"})
		return
	}

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

	plan, err := h.LLM.GeneratePlan(ctx, snap, insights)
	if err != nil {
		log.Printf("ERROR: Plan generation failed for website %d: %v", website.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate plan"})
		return
	}
	plan.WebsiteID = website.ID
	plan.InsightIDs = req.InsightIDs

	saved, err := h.PlanStore.CreatePlan(ctx, plan)
	if err != nil {
		log.Printf("ERROR: Failed to save plan for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plan"})
		return
	}

	log.Printf("Plan %d created for website %d with %d steps.", saved.ID, website.ID, len(saved.Steps))
	c.JSON(http.StatusCreated, saved)
}

func (h *PlanHandlers) ListPlans(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	plans, err := h.PlanStore.ListPlans(ctx, website.ID)
	if err != nil {
		log.Printf("ERROR: Failed to list plans for website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandlers) GetPlan(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	plan, err := h.PlanStore.GetPlan(ctx, userID, planID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		log.Printf("ERROR: Failed to get plan %d: %v", planID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandlers) UpdatePlan(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if !models.PlanStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: draft, active, completed"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	plan, err := h.PlanStore.UpdatePlanStatus(ctx, userID, planID, req.Status)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		log.Printf("ERROR: Failed to update plan %d: %v", planID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandlers) DeletePlan(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	if err := h.PlanStore.DeletePlan(ctx, userID, planID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		log.Printf("ERROR: Failed to delete plan %d: %v", planID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
