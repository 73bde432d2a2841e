package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile    string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ai-service",
		Short: "AI agent service with autonomous workflow recovery",
		Long: `ai-service hosts the skill-gap, assessment, aptitude and orchestration agents
behind a REST API and an MCP endpoint.

Run without a subcommand to start the HTTP server.`,
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd, orchestrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
