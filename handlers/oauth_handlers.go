package handlers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"insightboard/api/ga4"
	"insightboard/api/store"
	"insightboard/api/syncer"
	"insightboard/api/utils"
)

type OAuthHandlers struct {
	UserStore *store.UserStore
	GA        *ga4.Client
	Syncer    *syncer.Service
	Config    *oauth2.Config
}

func NewOAuthHandlers(userStore *store.UserStore, ga *ga4.Client, sync *syncer.Service) *OAuthHandlers {
	return &OAuthHandlers{
		UserStore: userStore,
		GA:        ga,
		Syncer:    sync,
		Config:    utils.GoogleOAuthConfig(),
	}
}

// AuthURL returns the Google consent URL. The state nonce is bound to the
// authenticated user so the callback (which arrives without our JWT) can
// attribute the grant.
func (h *OAuthHandlers) AuthURL(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	state := utils.NewOAuthState(userID)
	if state == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create OAuth state"})
		return
	}

	url := h.Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// Callback is where Google redirects after consent. It is unauthenticated
// from our side; the state nonce is the only link back to the user.
func (h *OAuthHandlers) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		log.Printf("Google OAuth consent denied: %s", errParam)
		c.Redirect(http.StatusFound, frontendURL("/settings?google=denied"))
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing state or code parameter"})
		return
	}

	userID, ok := utils.ConsumeOAuthState(state)
	if !ok {
		log.Printf("Google OAuth callback with unknown or expired state")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OAuth state"})
		return
	}

	ctx, cancel := withTimeout(c, 15*time.Second)
	defer cancel()

	token, err := h.Config.Exchange(ctx, code)
	if err != nil {
		log.Printf("ERROR: Google OAuth code exchange failed for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	data, err := utils.MarshalToken(token)
	if err != nil {
		log.Printf("ERROR: Failed to serialize google token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Google connection"})
		return
	}
	if err := h.UserStore.UpdateGoogleToken(ctx, userID, data); err != nil {
		log.Printf("ERROR: Failed to persist google token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Google connection"})
		return
	}

	log.Printf("Google Analytics connected for user %d.", userID)
	c.Redirect(http.StatusFound, frontendURL("/settings?google=connected"))
}

// Disconnect removes the stored Google token.
func (h *OAuthHandlers) Disconnect(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	if err := h.UserStore.ClearGoogleToken(c.Request.Context(), userID); err != nil {
		log.Printf("ERROR: Failed to clear google token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect Google account"})
		return
	}

	log.Printf("Google Analytics disconnected for user %d.", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Google account disconnected"})
}

// Properties lists the GA4 properties the user's token can see.
func (h *OAuthHandlers) Properties(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	ctx, cancel := withTimeout(c, 20*time.Second)
	defer cancel()

	ts, err := h.Syncer.TokenSourceFor(ctx, userID)
	if err != nil {
		if err == syncer.ErrNotConnected {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Google account is not connected"})
			return
		}
		log.Printf("ERROR: Failed to build token source for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to access Google account"})
		return
	}

	props, err := h.GA.ListProperties(ctx, ts)
	if err != nil {
		log.Printf("ERROR: Failed to list GA4 properties for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to list GA4 properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": props})
}

// frontendURL joins a path onto the configured frontend origin.
func frontendURL(path string) string {
	origin := os.Getenv("FE_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return origin + path
}
