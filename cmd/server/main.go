package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"converse/internal/auth"
	"converse/internal/config"
	"converse/internal/handler"
	"converse/internal/llm/openai"
	"converse/internal/middleware"
	"converse/internal/ratelimit"
	"converse/internal/repository/postgres"
	analysisService "converse/internal/service/analysis"
	chatService "converse/internal/service/chat"
	conversationService "converse/internal/service/conversation"
	generationService "converse/internal/service/generation"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Chat limits (defaults, optionally overridden from a YAML file)
	limits, err := config.LoadChatLimits(cfg.LimitsFile)
	if err != nil {
		log.Fatalf("Failed to load chat limits: %v", err)
	}

	// Optional bearer token verification
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
	} else {
		logger.Warn("JWKS_URL not set, requests are identified by body user_id only")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	turnRepo := postgres.NewTurnRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	// Completion client
	completions, err := openai.NewClient(cfg.OpenAIAPIKey, logger, openai.WithBaseURL(cfg.OpenAIBaseURL))
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	// Admission gate - one shared instance caps aggregate completion-call
	// volume across every request path.
	gate := ratelimit.NewFixedWindowLimiter(ratelimit.Config{
		PermitsPerPeriod: cfg.RateLimitPermits,
		Period:           cfg.RateLimitPeriod,
		AcquireTimeout:   cfg.RateLimitAcquireTimeout,
	}, logger)

	logger.Info("admission gate configured",
		"permits_per_period", cfg.RateLimitPermits,
		"period", cfg.RateLimitPeriod,
		"acquire_timeout", cfg.RateLimitAcquireTimeout,
	)

	// Create services
	chatSvc := chatService.NewService(completions, gate, cfg.DefaultModel, limits, logger)
	conversationSvc := conversationService.NewService(turnRepo, completions, gate, cfg.DefaultModel, limits, logger)
	generationSvc := generationService.NewService(completions, gate, cfg.DefaultModel, logger)
	analysisSvc := analysisService.NewService(completions, gate, cfg.DefaultModel, logger)

	// Create handlers
	chatHandler := handler.NewChatHandler(chatSvc, conversationSvc, logger)
	generationHandler := handler.NewGenerationHandler(generationSvc, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisSvc, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", chatHandler.HealthCheck)

	// Chat routes
	mux.HandleFunc("POST /api/chat", chatHandler.SimpleChat)
	mux.HandleFunc("POST /api/chat/conversation", chatHandler.ChatWithMemory)
	mux.HandleFunc("POST /api/chat/conversation/{id}", chatHandler.ContinueConversation)
	mux.HandleFunc("GET /api/chat/history/{userId}", chatHandler.GetConversationHistory)
	mux.HandleFunc("GET /api/chat/conversation/{id}/messages", chatHandler.GetConversationMessages)

	// Content generation and document analysis routes
	mux.HandleFunc("POST /api/generate", generationHandler.GenerateContent)
	mux.HandleFunc("POST /api/analyze", analysisHandler.AnalyzeDocument)

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(verifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		// Completion calls can be slow; leave room for the gate's acquire
		// timeout plus the endpoint's own latency.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
