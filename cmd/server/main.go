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

	"fishing-backend/internal/config"
	"fishing-backend/internal/database"
	"fishing-backend/internal/handlers"
	"fishing-backend/internal/middleware"
	"fishing-backend/internal/repository"
	"fishing-backend/internal/router"
	"fishing-backend/internal/scheduler"
	"fishing-backend/internal/services"
	"fishing-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Fishing Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Store ────
	var store repository.Store
	if cfg.DatabaseURL != "" {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ Database migrations applied")

		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		store = repository.NewPostgresStore(pool)
		log.Println("✓ PostgreSQL connected")
	} else {
		store = repository.NewMemoryStore()
		log.Println("⚠ DATABASE_URL not set, using the in-memory store (data is lost on restart)")
	}

	// ──── Step 3: Initialize Redis & WebSocket Hub ────
	var events services.EventPublisher
	var wsHub *websocket.Hub
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		wsHub = websocket.NewHub(redisClient, cfg.FrontendURL)
		events = services.NewRedisPublisher(redisClient)
		log.Println("✓ Redis connected, events fan out through pub/sub")
	} else {
		wsHub = websocket.NewHub(nil, cfg.FrontendURL)
		events = wsHub
		log.Println("⚠ REDIS_URL not set, events are delivered in process only")
	}

	// ──── Step 4: Select Scheduling Policy ────
	policy, err := scheduler.New(cfg.SchedulerPolicy)
	if err != nil {
		log.Fatalf("✗ Scheduler: %v", err)
	}
	log.Printf("✓ Scheduling policy: %s", policy.Name())

	// ──── Step 5: Initialize Gemini Client ────
	var seeder *services.Seeder
	if cfg.GeminiAPIKey != "" {
		gen, err := services.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gen.Close()
		seeder = services.NewSeeder(gen, cfg.SeedMaxRetries)
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	} else {
		log.Println("⚠ GEMINI_API_KEY not set, AI pond seeding disabled")
	}

	// ──── Initialize Services ────
	tokenAuth := middleware.NewTokenAuth(cfg.TokenSecret, cfg.IsProduction())
	identityService := services.NewIdentityService(store, tokenAuth, cfg.AdminPasswordHash)
	pondService := services.NewPondService(store, policy, seeder, events)
	fishingService := services.NewFishingService(store, policy, events)
	feedbackService := services.NewFeedbackService(store)

	// ──── Initialize Handlers ────
	identityHandler := handlers.NewIdentityHandler(identityService)
	pondHandler := handlers.NewPondHandler(pondService)
	fishingHandler := handlers.NewFishingHandler(fishingService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	staticHandler := handlers.NewStaticHandler(cfg.StaticDir, identityService, tokenAuth)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		tokenAuth,
		identityService,
		identityHandler,
		pondHandler,
		fishingHandler,
		feedbackHandler,
		staticHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Fishing Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
