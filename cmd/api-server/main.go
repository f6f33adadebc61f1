package main

import (
	"os"

	"github.com/Aawaiz-Soomro/LibraDB/internal/auth"
	"github.com/Aawaiz-Soomro/LibraDB/internal/booking"
	"github.com/Aawaiz-Soomro/LibraDB/internal/catalog"
	"github.com/Aawaiz-Soomro/LibraDB/internal/health"
	"github.com/Aawaiz-Soomro/LibraDB/internal/rating"
	"github.com/Aawaiz-Soomro/LibraDB/internal/stats"
	"github.com/Aawaiz-Soomro/LibraDB/internal/user"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/config"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/metrics"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	cfg := config.LoadServicesConfig()

	if err := database.InitDatabase(cfg.DBPath); err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", cfg.DBPath)
		os.Exit(1)
	}
	defer database.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.JWTAlert {
		jwtSecret = "your-secret-key-change-this-in-production"
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET environment variable in production!")
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
		log.Info("using_default_frontend_url", "url", frontendURL)
	}

	authHandler := auth.NewHandler(jwtSecret)
	userHandler := user.NewHandler()
	catalogHandler := catalog.NewHandler()
	bookingHandler := booking.NewHandler()
	ratingHandler := rating.NewHandler()
	healthHandler := health.NewHandler()
	statsHandler := stats.NewHandler()

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{frontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", metrics.Handler)

	// Auth routes (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	// Protected account routes
	protectedAuth := router.Group("/auth")
	protectedAuth.Use(authHandler.AuthMiddleware())
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.POST("/change-password", authHandler.ChangePassword)
	}

	// Catalog routes (public reads, librarian writes)
	router.GET("/books", catalogHandler.ListBooks)
	router.GET("/books/:id", catalogHandler.GetBook)
	router.GET("/books/:id/ratings", ratingHandler.ListForBook)
	router.GET("/books/:id/rating-stats", ratingHandler.Stats)
	router.GET("/categories", catalogHandler.ListCategories)

	librarianCatalog := router.Group("")
	librarianCatalog.Use(authHandler.AuthMiddleware(), auth.RequireRole(models.RoleLibrarian))
	{
		librarianCatalog.POST("/books", catalogHandler.CreateBook)
		librarianCatalog.PUT("/books/:id", catalogHandler.UpdateBook)
		librarianCatalog.DELETE("/books/:id", catalogHandler.DeleteBook)
		librarianCatalog.POST("/categories", catalogHandler.CreateCategory)
		librarianCatalog.DELETE("/categories/:id", catalogHandler.DeleteCategory)
	}

	// Booking routes
	bookingGroup := router.Group("/bookings")
	bookingGroup.Use(authHandler.AuthMiddleware())
	{
		bookingGroup.GET("", bookingHandler.List)
		bookingGroup.GET("/:id", bookingHandler.Get)
		bookingGroup.POST("", auth.RequireRole(models.RoleMember), bookingHandler.Create)
		bookingGroup.POST("/:id/request-return", auth.RequireRole(models.RoleMember), bookingHandler.RequestReturn)

		bookingGroup.POST("/direct", auth.RequireRole(models.RoleLibrarian), bookingHandler.CreateDirect)
		bookingGroup.POST("/:id/approve", auth.RequireRole(models.RoleLibrarian), bookingHandler.Approve)
		bookingGroup.POST("/:id/return", auth.RequireRole(models.RoleLibrarian), bookingHandler.ConfirmReturn)
	}

	// Rating routes
	ratingGroup := router.Group("/ratings")
	ratingGroup.Use(authHandler.AuthMiddleware())
	{
		ratingGroup.POST("", auth.RequireRole(models.RoleMember), ratingHandler.Add)
		ratingGroup.GET("/mine", ratingHandler.Mine)
	}

	// User routes
	userGroup := router.Group("/users")
	userGroup.Use(authHandler.AuthMiddleware())
	{
		userGroup.GET("/me", userHandler.GetProfile)

		librarianUsers := userGroup.Group("")
		librarianUsers.Use(auth.RequireRole(models.RoleLibrarian))
		{
			librarianUsers.GET("", userHandler.List)
			librarianUsers.POST("", userHandler.Create)
			librarianUsers.POST("/:id/approve", userHandler.Approve)
			librarianUsers.DELETE("/:id", userHandler.Delete)
		}
	}

	// Dashboard stats (librarian)
	router.GET("/stats", authHandler.AuthMiddleware(), auth.RequireRole(models.RoleLibrarian), statsHandler.Overview)

	log.Info("starting_api_server", "port", cfg.API.Port)
	if err := router.Run(":" + cfg.API.Port); err != nil {
		log.Error("failed_to_start_api_server", "error", err.Error())
		os.Exit(1)
	}
}
