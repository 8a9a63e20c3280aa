// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-forum-api/config"
	"go-forum-api/db"
	"go-forum-api/handler"
	"go-forum-api/logger"
	"go-forum-api/repository"
	"go-forum-api/router"
	"go-forum-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r, err := buildRouter(database, redisClient)
	if err != nil {
		logger.Log.Fatalf("Error wiring application: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires repositories, services, and handlers together.
// The signing key is loaded once here and handed to the token service
// explicitly; nothing else ever reads it.
func buildRouter(database *sql.DB, redisClient *redis.Client) (http.Handler, error) {
	tokenService, err := service.NewTokenService(config.AppConfig.JWT.SecretKey)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	destinationRepo := repository.NewDestinationRepository(database)

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		tokenService,
		config.AccessTokenTTL(),
		config.RefreshTokenTTL(),
	)
	userService := service.NewUserService(userRepo)
	destinationService := service.NewDestinationService(destinationRepo, redisClient)

	userHandler := handler.NewUserHandler(userRepo, userService, authService)
	authHandler := handler.NewAuthHandler(authService)
	destinationHandler := handler.NewDestinationHandler(destinationService)

	authMiddleware := handler.NewAuthMiddleware(tokenService)

	return router.NewRouter(userHandler, authHandler, destinationHandler, authMiddleware), nil
}

// TestApp bundles the wired router with its backing connections for
// integration tests.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	r, err := buildRouter(database, redisClient)
	if err != nil {
		logger.Log.Fatalf("Error wiring test application: %v", err)
	}
	return &TestApp{
		DB:     database,
		Redis:  redisClient,
		Router: r,
	}
}
