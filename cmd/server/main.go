package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/waveshare/waveshare-api/internal/config"
	"github.com/waveshare/waveshare-api/internal/constants"
	"github.com/waveshare/waveshare-api/internal/database"
	"github.com/waveshare/waveshare-api/internal/handlers"
	"github.com/waveshare/waveshare-api/internal/middleware"
	"github.com/waveshare/waveshare-api/internal/notify"
	"github.com/waveshare/waveshare-api/internal/repository"
	"github.com/waveshare/waveshare-api/internal/services"
	"github.com/waveshare/waveshare-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Artifact storage
	blobs, err := storage.NewFilesystemStore(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	r.Static("/files", cfg.BlobDir)

	// Notification channel: webhook gateways when configured, log otherwise
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.EmailWebhookURL != "" && cfg.SMSWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.EmailWebhookURL, cfg.SMSWebhookURL)
	}

	// Initialize services and handlers
	orgRepo := repository.NewOrganizationRepository(database.GetDB())
	authService := services.NewAuthService(orgRepo, notifier, blobs, logger)
	rosterService := services.NewRosterService(orgRepo, blobs, logger)
	authHandler := handlers.NewAuthHandler(authService)
	rosterHandler := handlers.NewRosterHandler(rosterService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "WaveShare API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			// Registration flow
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/resend-email-otp", authHandler.ResendEmailOTP)
			auth.POST("/verify-phone", authHandler.VerifyPhone)
			auth.POST("/resend-phone-otp", authHandler.ResendPhoneOTP)
			auth.POST("/upload-document", authHandler.UploadDocument)
			auth.POST("/skip-document", authHandler.SkipDocument)

			// Roster ingestion
			auth.POST("/upload-csv", rosterHandler.UploadCSV)
			auth.POST("/upload-typed-csv", rosterHandler.UploadTypedCSV)
			auth.GET("/get-members-csv/:orgId", rosterHandler.GetMembersCSV)

			// Login and snapshot
			auth.POST("/admin-login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentOrganization)

			// Shareable code resolution
			auth.GET("/verify-org-code/:orgCode", authHandler.VerifyOrgCode)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
