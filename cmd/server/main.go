package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/araf-Mahmud-2004/NearNest/internal/config"
	"github.com/araf-Mahmud-2004/NearNest/internal/database"
	"github.com/araf-Mahmud-2004/NearNest/internal/handlers"
	"github.com/araf-Mahmud-2004/NearNest/internal/middleware"
	"github.com/araf-Mahmud-2004/NearNest/internal/models"
	"github.com/araf-Mahmud-2004/NearNest/internal/realtime"
	"github.com/araf-Mahmud-2004/NearNest/internal/routes"
	"github.com/araf-Mahmud-2004/NearNest/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting NearNest Backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database & Redis
	database.Connect()
	database.InitRedis()

	logger.Info().Msg("Running database migrations...")
	err := database.DB.AutoMigrate(
		&models.Profile{},
		&models.Listing{},
		&models.Event{},
		&models.Interest{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.InteractionEvent{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	logger.Info().Msg("Database migrations complete")

	// 2. Wire the change feed. Redis fans writes out across instances; a
	// single instance without Redis falls back to the in-process feed.
	var feed realtime.Feed
	if database.Redis != nil {
		if _, err := database.Redis.Ping(context.Background()).Result(); err == nil {
			feed = realtime.NewRedisFeed(database.Redis)
			logger.Info().Msg("Change feed backed by Redis pub/sub")
		}
	}
	if feed == nil {
		feed = realtime.NewLocalFeed()
		logger.Warn().Msg("Change feed running in-process; cross-instance fanout disabled")
	}
	realtime.Default = realtime.NewBridge(feed)
	defer realtime.Default.Close()

	// 3. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Exempt /socket.io from the general rate limit; long-polling transports
	// hammer it by design.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/socket.io/") {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	// 4. Register Routes
	api := r.Group("/api")
	{
		routes.RegisterAuthRoutes(api)
		routes.RegisterProfileRoutes(api)
		routes.RegisterPostRoutes(api)
		routes.RegisterInterestRoutes(api)
		routes.RegisterMessageRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterActivityRoutes(api)
		routes.RegisterUploadRoutes(api)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// 5. Socket.io gateway
	socketServer := handlers.InitSocketServer()
	defer socketServer.Close()

	r.GET("/socket.io/*any", handlers.SocketHandler(socketServer))
	r.POST("/socket.io/*any", handlers.SocketHandler(socketServer))

	// 6. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
