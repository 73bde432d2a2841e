package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-automation/backend/internal/config"
	"ai-automation/backend/internal/logging"
	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/pkg/models"
)

// seed stores the demo workflows in Postgres so the frontend has something
// to show before anyone calls orchestrate.
func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	envFile := flag.String("env", "", "Path to .env file")
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile, *configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresWorkflowStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	orch := orchestration.NewOrchestrator(
		orchestration.NewExecutor(orchestration.NewMockJobSearch(), 0),
		store,
		orchestration.WithPolicy(orchestration.NewRecoveryPolicy(cfg.Orchestration.FallbackLocation)),
		orchestration.WithLogger(logger),
	)

	scenarios := []models.WorkflowRequest{
		{UserID: "seed-script", WorkflowType: models.WorkflowFailureRecoveryDemo, TargetRole: "Python", TargetLocation: "London"},
		{UserID: "seed-script", WorkflowType: models.WorkflowFullAnalysis, TargetRole: "Go", TargetLocation: "Berlin"},
		{UserID: "seed-script", WorkflowType: models.WorkflowSkillGapOnly, TargetRole: "React", TargetLocation: "London"},
	}

	for _, req := range scenarios {
		resp, err := orch.Orchestrate(ctx, req)
		if err != nil {
			log.Printf("Failed to seed %s workflow: %v", req.WorkflowType, err)
			continue
		}
		logger.Info("Seeded workflow",
			"id", resp.WorkflowID,
			"type", req.WorkflowType,
			"status", resp.Status,
			"jobs", len(resp.JobsFound),
		)
	}
	logger.Info("Seeding complete!")
}
