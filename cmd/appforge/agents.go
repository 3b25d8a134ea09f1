package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/internal/config"
)

var agentsFileFlag string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered agents",
	Long: `Display every agent in the registry with its role, display name,
and the file patterns it owns.

The built-in roster covers orchestrator, database, backend, ui, devops,
and reviewer. Prompts and ownership patterns can be customized per role
with an agents.yaml file (see 'appforge config agents.file <path>').`,
	RunE: runAgents,
}

func init() {
	agentsCmd.Flags().StringVar(&agentsFileFlag, "file", "", "Load agent overrides from this YAML file")
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry, source, err := loadAgentRegistry(cfg, agentsFileFlag)
	if err != nil {
		return err
	}

	fmt.Printf("Registered agents (%d):\n\n", registry.Count())
	for _, desc := range registry.All() {
		fmt.Printf("  %s  %s\n", color.CyanString("%-12s", string(desc.Role)), desc.DisplayName)
		if len(desc.OwnedPathPatterns) > 0 {
			fmt.Printf("  %-12s  owns: %s\n", "", strings.Join(desc.OwnedPathPatterns, ", "))
		} else {
			fmt.Printf("  %-12s  owns: (coordination only)\n", "")
		}
	}

	fmt.Println()
	if source == "" {
		fmt.Println("Using built-in agent definitions.")
	} else {
		fmt.Printf("Overrides loaded from %s\n", source)
	}
	return nil
}

// loadAgentRegistry builds the registry, applying the overlay file from the
// flag when given, otherwise from configuration. Returns the overlay path used
// (empty for the built-in roster).
func loadAgentRegistry(cfg *config.Config, flagPath string) (*agents.Registry, string, error) {
	path := flagPath
	if path == "" && cfg != nil {
		path = cfg.Agents.File
	}
	if path == "" {
		return agents.NewRegistry(), "", nil
	}

	registry, err := agents.NewRegistryFromFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("load agents file: %w", err)
	}
	return registry, path, nil
}
