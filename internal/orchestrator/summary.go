package orchestrator

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// buildSummary renders the run's closing Markdown message: how each planned
// task ended and which files were created versus modified.
func buildSummary(plan *models.OrchestratorPlan, completed []models.CompletedTask, files []models.GeneratedFile) string {
	var b strings.Builder

	if plan.Summary != "" {
		b.WriteString(plan.Summary)
		b.WriteString("\n\n")
	}

	succeeded := 0
	for _, c := range completed {
		if c.Status == models.TaskStatusCompleted {
			succeeded++
		}
	}

	var created, modified []string
	for _, f := range files {
		if f.Action == models.FileActionModify {
			modified = append(modified, f.Path)
		} else {
			created = append(created, f.Path)
		}
	}

	fmt.Fprintf(&b, "Finished %d of %d task(s), producing %d file(s).\n", succeeded, len(plan.Tasks), len(files))

	b.WriteString("\n## Tasks\n\n")
	attempted := make(map[string]models.CompletedTask, len(completed))
	for _, c := range completed {
		attempted[c.Task.ID] = c
	}
	for _, task := range plan.Tasks {
		c, ok := attempted[task.ID]
		switch {
		case !ok:
			fmt.Fprintf(&b, "- Task %d (%s): skipped, dependencies did not complete\n", task.Order, task.Agent)
		case c.Status == models.TaskStatusCompleted:
			fmt.Fprintf(&b, "- Task %d (%s): completed, %d file(s)\n", task.Order, task.Agent, len(c.Result.Files))
		default:
			fmt.Fprintf(&b, "- Task %d (%s): failed, %s\n", task.Order, task.Agent, c.Result.Error)
		}
	}

	if len(created) > 0 {
		b.WriteString("\n## Files created\n\n")
		for _, path := range created {
			fmt.Fprintf(&b, "- `%s`\n", path)
		}
	}
	if len(modified) > 0 {
		b.WriteString("\n## Files modified\n\n")
		for _, path := range modified {
			fmt.Fprintf(&b, "- `%s`\n", path)
		}
	}
	if len(files) == 0 {
		b.WriteString("\nNo files were generated.\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
