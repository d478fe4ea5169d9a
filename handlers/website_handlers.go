package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/models"
	"insightboard/api/store"
)

type WebsiteHandlers struct {
	WebsiteStore *store.WebsiteStore
}

func NewWebsiteHandlers(websiteStore *store.WebsiteStore) *WebsiteHandlers {
	return &WebsiteHandlers{WebsiteStore: websiteStore}
}

func (h *WebsiteHandlers) CreateWebsite(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	var req models.CreateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	website, err := h.WebsiteStore.CreateWebsite(ctx, userID, &req)
	if err != nil {
		log.Printf("ERROR: Failed to create website for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create website"})
		return
	}

	log.Printf("Website created: ID=%d, User=%d, Domain=%s", website.ID, userID, website.Domain)
	c.JSON(http.StatusCreated, website)
}

func (h *WebsiteHandlers) ListWebsites(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	websites, err := h.WebsiteStore.ListWebsites(ctx, userID)
	if err != nil {
		log.Printf("ERROR: Failed to list websites for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list websites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"websites": websites})
}

func (h *WebsiteHandlers) GetWebsite(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}
	c.JSON(http.StatusOK, website)
}

func (h *WebsiteHandlers) UpdateWebsite(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	var req models.UpdateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	updated, err := h.WebsiteStore.UpdateWebsite(ctx, website.UserID, website.ID, &req)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Website not found"})
			return
		}
		log.Printf("ERROR: Failed to update website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update website"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *WebsiteHandlers) DeleteWebsite(c *gin.Context) {
	website := websiteFromPath(c, h.WebsiteStore)
	if website == nil {
		return
	}

	ctx, cancel := withTimeout(c, 10*time.Second)
	defer cancel()

	if err := h.WebsiteStore.DeleteWebsite(ctx, website.UserID, website.ID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Website not found"})
			return
		}
		log.Printf("ERROR: Failed to delete website %d: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete website"})
		return
	}

	log.Printf("Website deleted: ID=%d, User=%d", website.ID, website.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Website deleted"})
}
