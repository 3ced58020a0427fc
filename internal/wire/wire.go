// Package wire 提供依赖装配
package wire

import (
	"context"

	"ai-product-desc-api/internal/application/audit"
	"ai-product-desc-api/internal/application/generation"
	"ai-product-desc-api/internal/config"
	"ai-product-desc-api/internal/infrastructure/llm"
	"ai-product-desc-api/internal/infrastructure/persistence/postgres"
	"ai-product-desc-api/internal/infrastructure/persistence/redis"
	"ai-product-desc-api/internal/interfaces/http/handler"
	"ai-product-desc-api/internal/interfaces/http/router"
	"ai-product-desc-api/pkg/logger"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	SettingsRepo *postgres.SettingsRepository
	UsageRepo    *postgres.UsageRepository
	LogRepo      *postgres.LogRepository
	ProductRepo  *postgres.ProductRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter
}

// App 应用依赖容器
type App struct {
	Data *DataLayer

	LLMClient *llm.Client
	Settings  *generation.SettingsService
	Usage     *generation.UsageService
	Recorder  *audit.Recorder

	Orchestrator *generation.Orchestrator
	Router       *router.Router
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}

	dl := &DataLayer{
		PgClient:     pgClient,
		TxManager:    postgres.NewTxManager(pgClient),
		SettingsRepo: postgres.NewSettingsRepository(pgClient),
		UsageRepo:    postgres.NewUsageRepository(pgClient),
		LogRepo:      postgres.NewLogRepository(pgClient),
		ProductRepo:  postgres.NewProductRepository(pgClient),
	}

	cleanup := func() {
		if err := pgClient.Close(); err != nil {
			logger.Warn(ctx, "failed to close postgres client", "error", err.Error())
		}
	}

	return dl, cleanup, nil
}

// InitializeDataLayer 初始化完整数据层（PostgreSQL + Redis）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	dl, pgCleanup, err := InitializePostgresOnly(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		pgCleanup()
		return nil, nil, err
	}

	dl.RedisClient = redisClient
	dl.Cache = redis.NewCache(redisClient)
	dl.RateLimiter = redis.NewRateLimiter(redisClient)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn(ctx, "failed to close redis client", "error", err.Error())
		}
		pgCleanup()
	}

	return dl, cleanup, nil
}

// InitializeApp 初始化整个应用（带路由器）
//
// hooks 允许宿主注入扩展点实现，传 nil 使用直通实现。
func InitializeApp(ctx context.Context, cfg *config.Config, hooks generation.Hooks) (*App, func(), error) {
	dl, cleanup, err := InitializeDataLayer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	llmClient := llm.NewClient(&cfg.LLM)

	settingsSvc := generation.NewSettingsService(dl.SettingsRepo, dl.Cache, cfg.Generation.SettingsCacheTTL)
	usageSvc := generation.NewUsageService(dl.UsageRepo, hooks, cfg.Generation.FreeUsageLimit)
	recorder := audit.NewRecorder(dl.LogRepo, cfg.Audit.MaxEntries, cfg.Audit.RetentionDays)

	orchestrator := generation.NewOrchestrator(
		settingsSvc,
		usageSvc,
		dl.ProductRepo,
		generation.NewPromptBuilder(),
		llmClient,
		recorder,
		hooks,
	)

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(dl.PgClient, dl.RedisClient),
		Generation: handler.NewGenerationHandler(orchestrator, usageSvc),
		Product:    handler.NewProductHandler(orchestrator),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Logs:       handler.NewLogsHandler(recorder),
		Usage:      handler.NewUsageHandler(usageSvc),
	}

	app := &App{
		Data:         dl,
		LLMClient:    llmClient,
		Settings:     settingsSvc,
		Usage:        usageSvc,
		Recorder:     recorder,
		Orchestrator: orchestrator,
		Router:       router.New(cfg, handlers, dl.RateLimiter),
	}

	return app, cleanup, nil
}
