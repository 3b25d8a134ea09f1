package orchestrator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// Keyword groups for the fallback heuristic. Matching is substring-based on
// the lowercased user message.
var (
	databaseKeywords = []string{"database", "schema", "table", "sql"}
	backendKeywords  = []string{"api", "endpoint", "backend", "server"}
)

// buildFallbackPlan constructs a plan from keywords in the user message.
// It is used when the model's planning output cannot be parsed, and always
// produces at least one task: a ui task is appended last unconditionally,
// depending on whichever task preceded it. A request can therefore never
// fail solely because the planner returned unstructured text.
func buildFallbackPlan(userMessage string) *models.OrchestratorPlan {
	msg := strings.ToLower(userMessage)

	var tasks []models.PlannedTask

	addTask := func(agent models.AgentRole, description string) {
		task := models.PlannedTask{
			ID:          uuid.New().String(),
			Order:       len(tasks) + 1,
			Agent:       agent,
			Description: description,
		}
		if len(tasks) > 0 {
			task.Dependencies = []int{tasks[len(tasks)-1].Order}
		}
		tasks = append(tasks, task)
	}

	if containsAny(msg, databaseKeywords) {
		addTask(models.RoleDatabase, "Design the data model and schema for: "+userMessage)
	}
	if containsAny(msg, backendKeywords) {
		addTask(models.RoleBackend, "Implement the server-side logic and API for: "+userMessage)
	}
	addTask(models.RoleUI, "Build the user interface for: "+userMessage)

	return &models.OrchestratorPlan{
		ID:                 uuid.New().String(),
		Summary:            "Plan derived from keywords in the request",
		Tasks:              tasks,
		EstimatedFileCount: len(tasks),
	}
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
