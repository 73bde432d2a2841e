package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"ai-automation/backend/pkg/models"
)

var (
	orchestrateUser     string
	orchestrateType     string
	orchestrateRole     string
	orchestrateLocation string
)

var orchestrateCmd = &cobra.Command{
	Use:   "orchestrate",
	Short: "Run one workflow and print the result as JSON",
	Long: `Run one orchestration workflow against the configured store and print the
response. Use --location London to watch the recovery path.`,
	RunE: runOrchestrate,
}

func init() {
	orchestrateCmd.Flags().StringVar(&orchestrateUser, "user", "cli", "User id recorded on the workflow")
	orchestrateCmd.Flags().StringVar(&orchestrateType, "type", string(models.WorkflowFailureRecoveryDemo), "Workflow type")
	orchestrateCmd.Flags().StringVar(&orchestrateRole, "role", models.DefaultTargetRole, "Target role or skill")
	orchestrateCmd.Flags().StringVar(&orchestrateLocation, "location", models.DefaultTargetLocation, "Target location")
}

func runOrchestrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// stdout carries only the JSON result
	a, err := loadApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.orchestrator.Orchestrate(ctx, models.WorkflowRequest{
		UserID:         orchestrateUser,
		WorkflowType:   models.WorkflowType(orchestrateType),
		TargetRole:     orchestrateRole,
		TargetLocation: orchestrateLocation,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
