package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/config"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/database"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/fetch"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/handlers"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/llm"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/middleware"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/repositories"
	"github.com/newsgraph-ai/newsgraph-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	llmClient, err := llm.NewClient(&llm.Config{
		Provider: cfg.LLM.Provider,
		Endpoint: cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	articleRepo := repositories.NewArticleRepository(db)
	entityRepo := repositories.NewEntityRepository(db)
	relationshipRepo := repositories.NewRelationshipRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	timelineRepo := repositories.NewTimelineRepository(db)
	logRepo := repositories.NewIngestionLogRepository(db)

	fetcher := fetch.New(nil, cfg.Ingest.UserAgent,
		time.Duration(cfg.Ingest.FetchTimeoutSeconds)*time.Second, logger)

	extractionService := services.NewExtractionService(llmClient, logger)
	articleService := services.NewArticleService(articleRepo, logger)
	resolverService := services.NewEntityResolverService(entityRepo, articleRepo, llmClient, logger)
	versionerService := services.NewClaimVersionerService(db, entityRepo, relationshipRepo, claimRepo, logger)
	timelineService := services.NewTimelineService(db, entityRepo, timelineRepo, claimRepo, logger)
	entityService := services.NewEntityService(entityRepo, relationshipRepo, timelineRepo, resolverService, logger)
	ingestionService := services.NewIngestionService(
		fetcher, extractionService, articleService, resolverService,
		versionerService, timelineService, articleRepo, logRepo,
		cfg.Ingest.MaxContentChars, cfg.Ingest.MinContentChars, logger)

	mux := http.NewServeMux()

	requireAdmin := handlers.RequireAdmin(cfg.AdminSecret, logger)

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewIngestHandler(ingestionService, logger).RegisterRoutes(mux, requireAdmin)
	handlers.NewArticleHandler(articleService, logger).RegisterRoutes(mux)
	handlers.NewEntityHandler(entityService, logger).RegisterRoutes(mux)
	handlers.NewIngestionLogHandler(logRepo, logger).RegisterRoutes(mux, requireAdmin)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting newsgraph-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
