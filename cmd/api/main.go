package main

import (
	"context"
	"fmt"

	"github.com/abhishek622/intellihire/internal/application"
	"github.com/abhishek622/intellihire/internal/auth"
	"github.com/abhishek622/intellihire/internal/cache"
	"github.com/abhishek622/intellihire/internal/config"
	"github.com/abhishek622/intellihire/internal/database"
	"github.com/abhishek622/intellihire/internal/fetcher"
	"github.com/abhishek622/intellihire/internal/handler"
	"github.com/abhishek622/intellihire/internal/interview"
	"github.com/abhishek622/intellihire/internal/llm"
	"github.com/abhishek622/intellihire/internal/logger"
	"github.com/abhishek622/intellihire/internal/metrics"
	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type app struct {
	DB         *pgxpool.Pool
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Handler    *handler.Handler
	Metrics    *metrics.Metrics
	Limiter    cache.Limiter
	TokenMaker *auth.JWTMaker
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxConns, cfg.DB.MaxConnLifetime)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			sugar.Fatal(err)
		}
	}

	crypto, err := pkg.NewCrypto(cfg.Crypto.Secret)
	if err != nil {
		sugar.Fatal(err)
	}
	repo := repository.NewRepository(pool, crypto)
	m := metrics.New()

	provider, closeProvider, err := newProvider(ctx, cfg.LLM)
	if err != nil {
		sugar.Fatal(err)
	}
	defer closeProvider()
	observed := llm.NewObserved(provider, cfg.LLM.Provider, cfg.LLM.Timeout, m, log)

	tokenMaker := auth.NewJWTMaker(cfg.JWT.Secret, cfg.JWT.TTL)
	h := &handler.Handler{
		Logger:       log,
		Users:        repo,
		TokenMaker:   tokenMaker,
		Applications: application.NewService(repo, m, log),
		Interviews: interview.NewService(interview.Deps{
			Provider:         observed,
			Store:            repo,
			Pages:            fetcher.NewFetcher(cfg.LLM.Timeout),
			Observer:         m,
			Logger:           log,
			ChunkConcurrency: cfg.LLM.ChunkConcurrency,
			MaxPairs:         cfg.LLM.MaxTranscriptPairs,
		}),
	}

	a := &app{
		DB:         pool,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Handler:    h,
		Metrics:    m,
		Limiter:    newLimiter(ctx, cfg, log),
		TokenMaker: tokenMaker,
	}

	if err := a.serve(); err != nil {
		sugar.Fatal(err)
	}
}

// newProvider builds the configured generative text provider. The returned
// func releases its resources.
func newProvider(ctx context.Context, cfg config.LLMConfig) (llm.Provider, func(), error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			ProjectID:       cfg.GoogleProject,
			Location:        cfg.GoogleLocation,
			Model:           cfg.GeminiModel,
			CredentialsFile: cfg.GoogleCredentials,
		})
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	case config.ProviderGroq:
		return llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.Timeout), func() {}, nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.Timeout), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// newLimiter prefers redis so every replica shares the window, falling back
// to a per-process limiter when redis is not configured or unreachable.
func newLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Limiter {
	if !cfg.Limiter.Enabled {
		return nil
	}
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryLimiter()
	}
	client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, client); err != nil {
		log.Warn("redis unavailable, using in-memory rate limiter", zap.Error(err))
		_ = client.Close()
		return cache.NewMemoryLimiter()
	}
	return cache.NewRedisLimiter(client, "intellihire:ratelimit:")
}
