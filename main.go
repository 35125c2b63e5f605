package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/auth"
	"ms-event-dashboard/internal/catalog"
	"ms-event-dashboard/internal/config"
	"ms-event-dashboard/internal/editor"
	editor_api "ms-event-dashboard/internal/editor/api"
	events_api "ms-event-dashboard/internal/events/api"
	"ms-event-dashboard/internal/gateway"
	"ms-event-dashboard/internal/kafka"
	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/vendors"
	vendors_api "ms-event-dashboard/internal/vendors/api"
)

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Warn("REDIS", "REDIS_ADDR not set, catalog cache falls back to in-memory")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis connection error, using in-memory catalog cache: %v", err))
		client.Close()
		return nil
	}

	log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Event Dashboard Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	if cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "" {
		logger.Fatal("CONFIG", "AIRTABLE_API_KEY and AIRTABLE_BASE_ID must be set")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("CONFIG", "JWT_SECRET not set")
	}

	ctx := context.Background()

	httpClient := &http.Client{
		Timeout: cfg.Airtable.RequestTimeout,
	}
	airtableClient := airtable.NewClient(cfg.Airtable, httpClient)
	store := gateway.New(airtableClient, logger)
	logger.Info("AIRTABLE", fmt.Sprintf("Record gateway initialized for base %s", cfg.Airtable.BaseID))

	redisClient := connectRedis(ctx, cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	catalogCache := catalog.NewCache(redisClient, cfg.Redis.CatalogTTL)
	catalogs := catalog.NewService(store, catalogCache, logger)

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		requiredTopics := []string{
			cfg.Kafka.Topics.EventSaved,
			cfg.Kafka.Topics.EventDeleted,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
	}

	resolver := linker.New(store, logger)
	sessions := editor.NewManager(store, catalogs, resolver, producer, logger, cfg.Editor)
	vendorService := vendors.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	vendorHandler := vendors_api.NewHandler(vendorService, logger)
	eventHandler := events_api.NewHandler(store, catalogs, producer, logger, cfg.Editor.PublicBaseURL)
	editorHandler := editor_api.NewHandler(sessions, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/api/vendors/login", vendorHandler.Login)
	logger.Info("ROUTER", "Public login endpoint registered at /api/vendors/login")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))
		logger.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			eventHandler.RegisterRoutes(r)
			logger.Info("ROUTER", "Event routes registered under /api/events")

			editorHandler.RegisterRoutes(r)
			logger.Info("ROUTER", "Editor session routes registered under /api/editor/sessions")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Event Dashboard Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Event Dashboard Service shutdown complete")
	}
}
