package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "appforge",
	Short: "Multi-agent application generator",
	Long: `AppForge turns a natural-language request into a working set of
application files using a team of specialized agents.

An orchestrator agent plans the work into ordered tasks, then database,
backend, ui, devops, and reviewer agents execute them sequentially, each
producing complete files that are merged into one project snapshot.

Commands:
  build   Generate an app from a request and write the files locally
  serve   Run the HTTP API with a streaming progress endpoint
  agents  Show the configured agent roles
  config  View or modify configuration`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
