package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-automation/backend/internal/config"
	"ai-automation/backend/internal/events"
	"ai-automation/backend/internal/logging"
	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/internal/services"
	"ai-automation/backend/internal/telemetry"
	"ai-automation/backend/internal/tools"
)

// app is the wired service graph shared by every subcommand.
type app struct {
	cfg          *config.Config
	logger       *logging.Logger
	orchestrator *orchestration.Orchestrator
	agents       *orchestration.AgentRegistry
	skillGap     *services.SkillGapService
	assessment   *services.AssessmentService
	aptitude     *services.AptitudeService
	memory       *services.MemoryService

	closers []func() error
}

// loadApp loads configuration and wires services, logging to logOut.
func loadApp(ctx context.Context, logOut io.Writer) (*app, error) {
	logger := logging.New(logOut, logging.LevelInfo)

	cfg, err := config.LoadConfig(envFile, configFile)
	if err != nil {
		return nil, fmt.Errorf("configuration loading failed: %w", err)
	}
	logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	logger.Info("Configuration loaded",
		"environment", cfg.Environment,
		"store", cfg.Store.Driver,
		"llm_provider", cfg.LLM.Provider,
	)

	a := &app{cfg: cfg, logger: logger}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	store, err := a.workflowStore(ctx)
	if err != nil {
		return err
	}

	llm, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if llm == nil {
		logger.Warn("No LLM configured, agents will use deterministic fallbacks")
	}

	publisher := events.Publisher(events.NoopPublisher{})
	if cfg.AMQP.URL != "" {
		p, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, p.Close)
		publisher = p
		logger.Info("Publishing workflow events", "exchange", cfg.AMQP.Exchange)
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	var fetcher tools.ObjectFetcher
	if cfg.S3.Bucket != "" {
		f, err := tools.NewS3Fetcher(ctx, tools.S3Options{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		fetcher = f
		logger.Info("Resume object storage enabled", "bucket", cfg.S3.Bucket)
	}

	executor := orchestration.NewExecutor(orchestration.NewMockJobSearch(), cfg.Orchestration.StepDelay)
	a.orchestrator = orchestration.NewOrchestrator(executor, store,
		orchestration.WithPolicy(orchestration.NewRecoveryPolicy(cfg.Orchestration.FallbackLocation)),
		orchestration.WithPublisher(publisher),
		orchestration.WithRecorder(metrics),
		orchestration.WithLogger(logger),
	)
	a.agents = orchestration.NewAgentRegistry()
	resources := tools.NewTavilyResources(tools.TavilyOptions{
		APIKey:   cfg.Resources.TavilyAPIKey,
		Endpoint: cfg.Resources.TavilyURL,
		Logger:   logger,
	})
	if cfg.Resources.TavilyAPIKey != "" {
		logger.Info("Web resource search enabled")
	}
	a.skillGap = services.NewSkillGapService(llm, tools.NewResumeParser(fetcher), resources, logger)
	a.assessment = services.NewAssessmentService(llm, tools.NewContentProcessor(nil, nil), logger)
	a.aptitude = services.NewAptitudeService(llm, logger)
	docs, err := a.documentStore()
	if err != nil {
		return err
	}
	a.memory = services.NewMemoryService(docs)

	logger.Info("Service layer initialized")
	return nil
}

func (a *app) workflowStore(ctx context.Context) (repository.WorkflowStore, error) {
	if a.cfg.Store.Driver != config.StorePostgres {
		return repository.NewMemoryWorkflowStore(), nil
	}

	pool, err := initDatabase(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	store := repository.NewPostgresWorkflowStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	a.logger.Info("Database connected")
	return store, nil
}

func (a *app) documentStore() (repository.DocumentStore, error) {
	if a.cfg.Embeddings.Driver != config.StoreSQLite {
		return repository.NewMemoryDocumentStore(), nil
	}

	store, err := repository.NewSQLiteDocumentStore(a.cfg.Embeddings.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	a.logger.Info("Embeddings store opened", "path", a.cfg.Embeddings.Path)
	return store, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// newLLMClient returns nil when no provider or key is configured.
func newLLMClient(ctx context.Context, cfg *config.Config) (services.LLMClient, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil
	}
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return services.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	case config.ProviderOpenAI:
		return services.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL), nil
	}
	return nil, nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
