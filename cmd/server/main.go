package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"

	"github.com/hiddengem/nova-travel/internal/config"
	"github.com/hiddengem/nova-travel/internal/handlers"
	"github.com/hiddengem/nova-travel/internal/llm"
	"github.com/hiddengem/nova-travel/internal/logger"
	"github.com/hiddengem/nova-travel/internal/memory"
	"github.com/hiddengem/nova-travel/internal/storage"
	"github.com/hiddengem/nova-travel/internal/transport"
)

func main() {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting service", "service", cfg.ServiceName, "model", cfg.GeminiModel)

	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()

	// Session memory: Redis when configured, in-process store otherwise.
	var store memory.Store
	if cfg.RedisURL != "" {
		redisStore, err := memory.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatal("failed to connect to Redis", "error", err)
		}
		store = redisStore
		log.Info("Redis session store connected", "ttl", cfg.SessionTTL)
	} else {
		store = memory.NewLocalStore(cfg.SessionTTL)
		log.Warn("REDIS_URL not set, sessions held in process memory")
	}

	memoryManager := memory.NewManager(store)
	defer memoryManager.Close()

	// Database: Postgres when configured, local sqlite file otherwise.
	var dbService *storage.Service
	if cfg.DatabaseURL != "" {
		dbService, err = storage.NewPostgresService(cfg.DatabaseURL, log)
	} else {
		log.Warn("DATABASE_URL not set, using local sqlite database")
		dbService, err = storage.Open(sqlite.Open("nova.db"), log)
	}
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("database migration failed", "error", err)
	}

	db := dbService.DB()
	userRepo := storage.NewUserRepo(db)
	locationRepo := storage.NewLocationRepo(db)
	planRepo := storage.NewTripPlanRepo(db)
	insightRepo := storage.NewInsightRepo(db)

	provider, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		log.Fatal("failed to init Gemini provider", "error", err)
	}
	defer provider.Close()

	chatHandler := handlers.NewChatHandler(provider, memoryManager, log)

	// Optional NATS ingress for internal callers.
	if cfg.NatsURL != "" {
		natsTransport, err := transport.NewNATSTransport(cfg, chatHandler, log)
		if err != nil {
			log.Fatal("failed to init NATS transport", "error", err)
		}
		defer natsTransport.Close()
		if err := natsTransport.Start(); err != nil {
			log.Fatal("failed to start NATS transport", "error", err)
		}
	}

	httpServer := transport.NewHTTPServer(chatHandler, userRepo, locationRepo, planRepo, insightRepo, log)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpServer.Router(cfg.AllowOrigins),
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown error", "error", err)
	}

	log.Info("service stopped", "active_sessions", memoryManager.ActiveSessionCount())
}
