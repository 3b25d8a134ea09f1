package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/appforge/internal/config"
	"github.com/ShayCichocki/appforge/internal/store"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List stored projects",
	Long: `Display every project in the local database with its file count,
token usage, and last activity.

Projects accumulate files and conversation history across builds, so a
follow-up request like "add login" modifies the app generated earlier.`,
	RunE: runProjects,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all its files",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	projectsCmd.AddCommand(projectsDeleteCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	projects, err := db.ListProjects()
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Run 'appforge build \"<what to build>\" --project <name>' to start one.")
		return nil
	}

	fmt.Printf("Projects (%d):\n\n", len(projects))
	for _, p := range projects {
		fileCount, err := db.CountProjectFiles(p.ID)
		if err != nil {
			return fmt.Errorf("count files for %s: %w", p.ID, err)
		}
		input, output, err := db.UsageTotals(p.ID)
		if err != nil {
			return fmt.Errorf("usage totals for %s: %w", p.ID, err)
		}

		fmt.Printf("  %s  %s\n", color.CyanString(p.ID), p.Name)
		fmt.Printf("    files: %d   tokens: %s in / %s out   updated: %s ago\n",
			fileCount,
			formatTokenCount(input),
			formatTokenCount(output),
			formatAge(time.Since(p.UpdatedAt)))
	}

	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id := args[0]
	project, err := db.GetProject(id)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return fmt.Errorf("no project with id %q", id)
	}

	if err := db.DeleteProject(id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	fmt.Printf("Deleted project %s (%s)\n", id, project.Name)
	return nil
}

// openStore opens the configured database (or the default location) and
// brings its schema up to date.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := store.DefaultPath()
	if cfg != nil && cfg.Storage.DBPath != "" {
		path = cfg.Storage.DBPath
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// formatAge renders a duration the way humans read activity timestamps.
func formatAge(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dd", int(d.Hours())/24)
}

// formatTokenCount formats a token count with comma separators.
func formatTokenCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
