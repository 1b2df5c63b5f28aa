package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gabaritai/backend/internal/config"
	"github.com/gabaritai/backend/internal/database"
	"github.com/gabaritai/backend/internal/handlers"
	"github.com/gabaritai/backend/internal/middleware"
	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title Gabaritai Exam Scoring API
// @version 1.0
// @description Scoring and reconciliation service for scanned multiple-choice answer sheets
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if len(os.Args) > 1 {
		handleCommand(os.Args[1])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if cfg.Server.Env == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		for _, allowedOrigin := range cfg.CORS.Origins {
			if origin == allowedOrigin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check - simple endpoint that doesn't require DB
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "gabaritai-api"})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Gabaritai Exam Scoring API", "status": "running"})
	})

	// Metrics
	if cfg.Monitoring.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Services
	authService := services.NewAuthService(db, cfg)
	auditService := services.NewAuditService(db)
	sessionService := services.NewSessionService(db)
	scoringService := services.NewScoringService(db, auditService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(db, authService)
	projectHandler := handlers.NewProjectHandler(db, scoringService, auditService)
	sessionHandler := handlers.NewSessionHandler(db, sessionService, scoringService)
	auditHandler := handlers.NewAuditHandler(db)

	// Routes
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			// Admin only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.PUT("/users/:id", userHandler.Update)
				admin.GET("/audit", auditHandler.List)
			}

			// Operator routes (admins included)
			operator := protected.Group("")
			operator.Use(middleware.RequireOperator())
			{
				operator.POST("/projects", projectHandler.Create)

				projects := operator.Group("/projects/:id")
				projects.Use(middleware.ProjectScope())
				{
					projects.POST("/merge", projectHandler.Merge)
				}

				operator.POST("/sessions", sessionHandler.Create)
				operator.PUT("/sessions/:id/key", sessionHandler.UpdateKey)
				operator.POST("/sessions/:id/sheets", sessionHandler.IngestSheets)
				operator.POST("/sessions/:id/roster", sessionHandler.ImportRoster)
				operator.POST("/sessions/:id/score", sessionHandler.Score)
			}

			// Read routes (all authenticated users)
			protected.GET("/projects", projectHandler.List)

			projectReads := protected.Group("/projects/:id")
			projectReads.Use(middleware.ProjectScope())
			{
				projectReads.GET("", projectHandler.Get)
				projectReads.GET("/results", projectHandler.Results)
				projectReads.GET("/statistics", projectHandler.Statistics)
			}

			protected.GET("/sessions/:id", sessionHandler.Get)
			protected.GET("/sessions/:id/sheets", sessionHandler.ListSheets)
			protected.GET("/sessions/:id/scores", sessionHandler.Scores)
			protected.GET("/sessions/:id/statistics", sessionHandler.Statistics)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func handleCommand(cmd string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	switch cmd {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			log.Fatal("Migration failed:", err)
		}
		log.Println("Migration completed successfully")

	case "seed-admin":
		seedAdmin(db, cfg)

	default:
		log.Printf("Unknown command: %s", cmd)
	}
}

func seedAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.Server.SeedAdminSecret == "" {
		log.Fatal("SEED_ADMIN_SECRET is required to seed an admin")
	}

	authService := services.NewAuthService(db, cfg)

	var count int64
	db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		log.Println("Admin already exists")
		return
	}

	admin := &models.User{
		Email:    "admin@gabaritai.local",
		FullName: "Administrator",
		Role:     "admin",
		IsActive: true,
	}

	if err := authService.CreateUser(admin, cfg.Server.SeedAdminSecret); err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("Admin created: %s", admin.Email)
}
