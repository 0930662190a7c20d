package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/movie_catalog/internal/config"
	httpDelivery "github.com/Pesokrava/movie_catalog/internal/delivery/http"
	"github.com/Pesokrava/movie_catalog/internal/delivery/events"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/movie_catalog/internal/pkg/cache"
	"github.com/Pesokrava/movie_catalog/internal/pkg/database"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/movie_catalog/internal/repository/cache"
	"github.com/Pesokrava/movie_catalog/internal/repository/postgres"
	"github.com/Pesokrava/movie_catalog/internal/usecase/movie"
	"github.com/Pesokrava/movie_catalog/internal/usecase/review"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Movie Catalog API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}
	appLogger.Info("Database migrations applied")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	movieRepo := postgres.NewMovieRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	txManager := postgres.NewTxManager(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.MovieTTL,
		cfg.Cache.ReviewsListTTL,
	)

	movieService := movie.NewService(movieRepo, txManager, redisCache, appLogger)
	reviewService := review.NewService(movieRepo, reviewRepo, txManager, redisCache, publisher, appLogger)

	movieHandler := handler.NewMovieHandler(movieService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, appLogger)

	router := httpDelivery.NewRouter(movieHandler, reviewHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
