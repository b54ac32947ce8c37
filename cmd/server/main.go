package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cavea/internal/config"
	"cavea/internal/handlers"
	"cavea/internal/middleware"
	"cavea/internal/repository"
	"cavea/internal/service"
	"cavea/internal/worker"
	"cavea/pkg/database"
	"cavea/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Cavea Backend Starting ===")

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	redisClient, err := redis.Connect(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	refRepo := repository.NewReferenceRepository(db)
	itemRepo := repository.NewCellarItemRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Services
	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, tokenRepo)
	refService := service.NewReferenceService(refRepo)
	cellarService := service.NewCellarService(db, itemRepo, cacheRepo, cfg.Cache.AggregateTTL, cfg.Export.OutputDir)
	commentService := service.NewCommentService(commentRepo, itemRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	refHandler := handlers.NewReferenceHandler(refService)
	cellarHandler := handlers.NewCellarHandler(cellarService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Background workers
	scheduler := worker.NewScheduler()
	if cfg.Workers.TokenPruneEnabled {
		scheduler.AddWorker(worker.NewTokenWorker(tokenRepo, cfg.Workers.TokenPruneInterval, cfg.Workers.TokenMaxIdle))
		log.Printf("Token Worker enabled (interval: %v)", cfg.Workers.TokenPruneInterval)
	}
	go scheduler.Start()
	defer scheduler.Stop()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	api := r.Group("/api")

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	protected := api.Group("", middleware.AuthMiddleware(authService))
	{
		protected.POST("/logout", authHandler.Logout)

		protected.GET("/users/:id", userHandler.Show)
		protected.PUT("/users/:id", userHandler.Update)
		protected.DELETE("/users/:id", userHandler.Destroy)

		protected.GET("/colours", refHandler.Colours)
		protected.GET("/regions", refHandler.Regions)
		protected.GET("/grape-varieties", refHandler.GrapeVarieties)

		protected.GET("/cellar-items", cellarHandler.Index)
		protected.GET("/cellar-items/last", cellarHandler.LastAdded)
		protected.GET("/cellar-items/total-stock", cellarHandler.TotalStock)
		protected.GET("/cellar-items/stock-by-colour", cellarHandler.StockByColour)
		protected.GET("/cellar-items/export", cellarHandler.Export)
		protected.GET("/cellar-items/colour/:colourId", cellarHandler.FilterByColour)
		protected.GET("/cellar-items/region/:regionId", cellarHandler.FilterByRegion)
		protected.GET("/cellar-items/:id", cellarHandler.Show)
		protected.POST("/cellar-items", cellarHandler.Store)
		protected.PUT("/cellar-items/:id", cellarHandler.Update)
		protected.POST("/cellar-items/:id/increment", cellarHandler.IncrementStock)
		protected.POST("/cellar-items/:id/decrement", cellarHandler.DecrementStock)
		protected.DELETE("/cellar-items/:id", cellarHandler.Destroy)

		protected.POST("/cellar-items/:id/comments", commentHandler.Store)
		protected.DELETE("/comments/:id", commentHandler.Destroy)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
