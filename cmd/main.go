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

	"avoidxray/internal/auth"
	"avoidxray/internal/config"
	"avoidxray/internal/database"
	"avoidxray/internal/handlers"
	"avoidxray/internal/imageproc"
	"avoidxray/internal/notify"
	"avoidxray/internal/services"
	"avoidxray/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to object storage
	bucket, err := storage.New(cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize services
	notifier := notify.NewMailtrap(cfg.Mail)
	authService := services.NewAuthService(database.GetDB())
	moderationService := services.NewModerationService(
		database.GetDB(),
		bucket,
		notifier,
		imageproc.Normalize,
		cfg.MaxUploadBytes(),
	)
	photoService := services.NewPhotoService(database.GetDB(), bucket)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(database.GetDB())
	catalogHandler := handlers.NewCatalogHandler(database.GetDB())
	imageHandler := handlers.NewCatalogImageHandler(moderationService, cfg.MaxUploadBytes())
	moderationHandler := handlers.NewModerationHandler(moderationService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	albumHandler := handlers.NewAlbumHandler(database.GetDB())

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"https://avoidxray.com",
		"http://localhost:3000",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public catalog and feed routes
	router.GET("/api/cameras", catalogHandler.GetCameras)
	router.GET("/api/filmstocks", catalogHandler.GetFilmStocks)
	router.GET("/api/photos", photoHandler.GetFeed)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Catalog endpoints
		api.POST("/cameras", catalogHandler.CreateCamera)
		api.POST("/filmstocks", catalogHandler.CreateFilmStock)

		// Community edit endpoints (submit goes through moderation)
		api.POST("/cameras/:id/image", imageHandler.SubmitCameraEdit)
		api.DELETE("/cameras/:id/image", imageHandler.DeleteCameraImage)
		api.POST("/filmstocks/:id/image", imageHandler.SubmitFilmStockEdit)
		api.DELETE("/filmstocks/:id/image", imageHandler.DeleteFilmStockImage)

		// Photo endpoints
		api.POST("/upload", photoHandler.Upload)
		api.POST("/likes", photoHandler.ToggleLike)

		// Album endpoints
		api.GET("/albums", albumHandler.GetAlbums)
		api.POST("/albums", albumHandler.CreateAlbum)
		api.GET("/albums/:id", albumHandler.GetAlbum)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(adminHandler.AdminMiddleware())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)
		admin.GET("/moderation", moderationHandler.GetPending)
		admin.POST("/moderation/:type/:id", moderationHandler.Review)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
