package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/config"
	dbRedis "github.com/agrifield/sopadvisor/internal/db/redis"
	"github.com/agrifield/sopadvisor/internal/domain"
	logpkg "github.com/agrifield/sopadvisor/internal/logger"
	"github.com/agrifield/sopadvisor/internal/metrics"
	corpusrepo "github.com/agrifield/sopadvisor/internal/repository/corpus"
	"github.com/agrifield/sopadvisor/internal/repository/corpusmem"
	notesrepo "github.com/agrifield/sopadvisor/internal/repository/notes"
	"github.com/agrifield/sopadvisor/internal/seed"
	chiTransport "github.com/agrifield/sopadvisor/internal/transport/chi"
	openaiTransport "github.com/agrifield/sopadvisor/internal/transport/openai"
	answeruc "github.com/agrifield/sopadvisor/internal/usecase/answer"
	corpusuc "github.com/agrifield/sopadvisor/internal/usecase/corpus"
	embeddinguc "github.com/agrifield/sopadvisor/internal/usecase/embedding"
	healthuc "github.com/agrifield/sopadvisor/internal/usecase/health"
	rankuc "github.com/agrifield/sopadvisor/internal/usecase/rank"
	recommenduc "github.com/agrifield/sopadvisor/internal/usecase/recommend"
	"github.com/agrifield/sopadvisor/internal/version"
)

// corpusRepository is the full store contract both backends implement.
type corpusRepository interface {
	Insert(ctx context.Context, doc domain.Document) (string, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, vector []float32, filter map[string]string, k int) ([]domain.Candidate, error)
	Strategy() domain.ScoringStrategy
	Ping(ctx context.Context) error
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sopadvisor API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_backend", cfg.Store.Backend),
	)

	// Register application metrics explicitly (no init())
	metrics.RegisterAppMetrics()

	ctx := context.Background()

	repo, cleanup, err := buildCorpusRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create document store", zap.Error(err))
	}
	defer cleanup()

	embedder := buildEmbedder(cfg, logger)
	logger.Info("Embedder ready",
		zap.Bool("provider_configured", embedder.Configured()),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Chat client only when model credentials exist; nil means fallback-only mode.
	var chat recommenduc.ChatCompleter
	if cfg.Model.APIKey != "" {
		chat = openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:      cfg.Model.APIKey,
			BaseURL:     cfg.Model.BaseURL,
			Model:       cfg.Model.Name,
			MaxTokens:   cfg.Model.MaxTokens,
			Temperature: cfg.Model.Temperature,
			Timeout:     time.Duration(cfg.Model.TimeoutSec) * time.Second,
			Logger:      logger,
		})
		logger.Info("Chat model configured", zap.String("model", cfg.Model.Name))
	} else {
		logger.Warn("No model API key configured, recommendations use fallback content")
	}

	noteRepo := notesrepo.New()

	corpusSvc := corpusuc.New(repo, embedder)
	rankSvc := rankuc.New(repo, embedder)
	recommendSvc := recommenduc.New(corpusSvc, chat, logger)
	answerSvc := answeruc.New(rankSvc, recommendSvc)
	healthSvc := healthuc.New(repo, embedderHealth(embedder))

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, cfg.Seed.Dir, corpusSvc, logger); err != nil {
			logger.Error("Seeding failed", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(noteRepo, rankSvc, recommendSvc, answerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCorpusRepository selects the store backend. The returned cleanup closes
// backend resources and is safe to call for the memory backend too.
func buildCorpusRepository(
	ctx context.Context, cfg config.Config, logger *zap.Logger,
) (corpusRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return corpusmem.New(cfg.Embedding.Dimensions), func() {}, nil

	case config.BackendRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Store.Addrs,
			Password: cfg.Store.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}

		readiness := time.Duration(cfg.Store.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Store.Addrs))

		repo := corpusrepo.New(store, cfg.Store.KeyPrefix, cfg.Embedding.Dimensions)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure index: %w", err)
		}
		return repo, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// buildEmbedder assembles the embedder chain: OpenAI provider -> Failsafe.
// With no API key the chain is Failsafe over nil, a pure zero-vector embedder.
func buildEmbedder(cfg config.Config, logger *zap.Logger) *embeddinguc.Failsafe {
	var inner domain.Embedder
	if cfg.Embedding.APIKey != "" {
		inner = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
			Logger:     logger,
		})
	}
	return embeddinguc.NewFailsafe(inner, cfg.Embedding.Dimensions, logger)
}

// embedderHealth exposes the embedding health check only when a real provider
// is configured; a zero-vector embedder has nothing to probe.
func embedderHealth(f *embeddinguc.Failsafe) healthuc.EmbeddingChecker {
	if !f.Configured() {
		return nil
	}
	return f
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
