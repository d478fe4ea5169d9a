package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insightboard/api/models"
	"insightboard/api/store"
)

// withTimeout caps a store/API call on the request context.
func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// websiteFromPath resolves the :id path param to a website owned by the
// authenticated user. On failure it writes the response and returns nil;
// callers just bail.
func websiteFromPath(c *gin.Context, websites *store.WebsiteStore) *models.Website {
	userID := c.MustGet("user_id").(int)

	websiteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid website id"})
		return nil
	}

	ctx, cancel := withTimeout(c, 5*time.Second)
	defer cancel()

	website, err := websites.GetWebsite(ctx, userID, websiteID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Website not found"})
			return nil
		}
		log.Printf("ERROR: Failed to load website %d for user %d: %v", websiteID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load website"})
		return nil
	}
	return website
}
