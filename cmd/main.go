package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"social-publisher-platform/internal/ai"
	"social-publisher-platform/internal/config"
	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/platform"
	"social-publisher-platform/internal/publisher"
	"social-publisher-platform/internal/scrape"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/internal/telemetry"
	"social-publisher-platform/middleware"
	"social-publisher-platform/routes"
	"social-publisher-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing + metrics
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("social-publisher-platform", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	db := mongoClient.Database(cfg.DBName)

	// Redis is optional; without it rate limiting and async generation
	// are disabled.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and async generation disabled", "error", err)
		rdb = nil
	}

	// Gemini client and generation pipeline
	geminiClient, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiTier)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer geminiClient.Close()

	generator := services.NewContentGenerator(geminiClient, scrape.NewFetcher(), cfg.ImageAPIURL)

	// Platform adapters
	registry := platform.NewRegistry()
	registry.Register(platform.NewFacebookAdapter(cfg.GraphAPIURL))
	registry.Register(platform.NewInstagramAdapter(cfg.GraphAPIURL))
	registry.Register(platform.NewLinkedInAdapter(cfg.LinkedInAPIURL))
	adsClient := platform.NewFacebookAdsClient(cfg.GraphAPIURL)
	registry.Register(adsClient)

	// Stores and orchestrator
	credentialStore := store.NewCredentialStore(db)
	contentStore := store.NewContentStore(db)
	pub := publisher.New(registry, credentialStore, contentStore, adsClient)

	// Task queue client for async generation
	var queueClient *asynq.Client
	if rdb != nil {
		addr, password, redisDB := cfg.AsynqRedisAddr()
		queueClient = asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password, DB: redisDB})
		defer queueClient.Close()
	}

	// Credential expiry alerts
	emailSender := services.NewSMTPEmailSender(*cfg)
	alertEvaluator := services.NewCredentialAlertEvaluator(*cfg, emailSender, credentialStore, db.Collection("users"))
	cronService := services.NewCronService(alertEvaluator)
	if cfg.SMTPHost != "" {
		if err := cronService.Start(cfg.ExpiryAlertCron); err != nil {
			logger.Warn("failed to schedule expiry alerts", "error", err)
		} else {
			defer cronService.Stop()
		}
	} else {
		logger.Info("SMTP not configured, credential expiry alerts disabled")
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)

	// Setup routes
	routes.SetupAuthRoutes(router, cfg, db)
	routes.SetupCredentialRoutes(router, authMiddleware, credentialStore, registry)
	routes.SetupContentRoutes(router, authMiddleware, contentStore, generator, pub, queueClient, metrics)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
