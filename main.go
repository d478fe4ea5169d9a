package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"insightboard/api/database"
	"insightboard/api/ga4"
	"insightboard/api/handlers"
	"insightboard/api/llm"
	"insightboard/api/middleware"
	"insightboard/api/scheduler"
	"insightboard/api/store"
	"insightboard/api/syncer"
	"insightboard/api/utils"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (users, websites, LLM output) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (metric history) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	websiteStore := store.NewWebsiteStore(dbClient.DB)
	metricsStore := store.NewMetricsStore(dbClient.DB)
	insightStore := store.NewInsightStore(dbClient.DB)
	planStore := store.NewPlanStore(dbClient.DB)
	reportStore := store.NewReportStore(dbClient.DB)
	summaryStore := store.NewSummaryStore(dbClient.DB)
	historyStore := store.NewHistoryStore(chClient)

	// --- Initialize Clients and Services ---
	gaClient := ga4.NewClient()
	llmClient := llm.NewClient()
	syncService := syncer.NewService(userStore, websiteStore, metricsStore, historyStore, gaClient, utils.GoogleOAuthConfig())

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	oauthHandlers := handlers.NewOAuthHandlers(userStore, gaClient, syncService)
	websiteHandlers := handlers.NewWebsiteHandlers(websiteStore)
	metricsHandlers := handlers.NewMetricsHandlers(websiteStore, metricsStore, historyStore, syncService)
	insightHandlers := handlers.NewInsightHandlers(websiteStore, metricsStore, insightStore, llmClient)
	summaryHandlers := handlers.NewSummaryHandlers(websiteStore, metricsStore, summaryStore, llmClient)
	planHandlers := handlers.NewPlanHandlers(websiteStore, metricsStore, insightStore, planStore, llmClient)
	reportHandlers := handlers.NewReportHandlers(websiteStore, metricsStore, historyStore, reportStore, llmClient)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)
		// Google redirects here; the state nonce carries the user binding.
		api.GET("/google/callback", oauthHandlers.Callback)

		// Protected Routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/profile", authHandlers.Profile)

			protected.GET("/google/auth-url", oauthHandlers.AuthURL)
			protected.DELETE("/google/connection", oauthHandlers.Disconnect)
			protected.GET("/google/properties", oauthHandlers.Properties)

			protected.POST("/websites", websiteHandlers.CreateWebsite)
			protected.GET("/websites", websiteHandlers.ListWebsites)
			protected.GET("/websites/:id", websiteHandlers.GetWebsite)
			protected.PUT("/websites/:id", websiteHandlers.UpdateWebsite)
			protected.DELETE("/websites/:id", websiteHandlers.DeleteWebsite)

			protected.POST("/websites/:id/sync", metricsHandlers.SyncWebsite)
			protected.GET("/websites/:id/metrics", metricsHandlers.GetMetrics)
			protected.GET("/websites/:id/metrics/history", metricsHandlers.GetHistory)

			protected.POST("/websites/:id/insights/generate", insightHandlers.GenerateInsights)
			protected.GET("/websites/:id/insights", insightHandlers.ListInsights)
			protected.DELETE("/insights/:id", insightHandlers.DeleteInsight)

			protected.POST("/websites/:id/summary/generate", summaryHandlers.GenerateSummary)
			protected.GET("/websites/:id/summary", summaryHandlers.GetSummary)

			protected.POST("/websites/:id/plans", planHandlers.CreatePlan)
			protected.GET("/websites/:id/plans", planHandlers.ListPlans)
			protected.GET("/plans/:id", planHandlers.GetPlan)
			protected.PATCH("/plans/:id", planHandlers.UpdatePlan)
			protected.DELETE("/plans/:id", planHandlers.DeletePlan)

			protected.POST("/websites/:id/reports", reportHandlers.CreateReport)
			protected.GET("/websites/:id/reports", reportHandlers.ListReports)
			protected.GET("/reports/:id", reportHandlers.GetReport)
			protected.DELETE("/reports/:id", reportHandlers.DeleteReport)
		}
	}

	// --- Background metrics sync ---
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduler.New(syncService).Run(schedCtx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
