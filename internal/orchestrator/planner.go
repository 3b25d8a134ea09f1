package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/pkg/models"
)

const (
	// maxHistoryEntries bounds how many recent conversation turns the plan
	// prompt includes.
	maxHistoryEntries = 6
	// maxHistoryEntryLen bounds each included turn, in runes.
	maxHistoryEntryLen = 500
)

// planPrompt asks the model for a structured plan. The JSON key names here
// are the contract the parser and normalizer rely on.
const planPrompt = `Plan the work needed for this request.

User request:
%s
%s%s
Return ONLY a JSON object with this exact structure (no other text):
{
  "summary": "One or two sentences describing the overall approach",
  "tasks": [
    {
      "order": 1,
      "agent": "database|backend|ui|devops|reviewer",
      "description": "What this task must accomplish",
      "targetFiles": ["paths/this/task/should/produce.ext"],
      "dependencies": []
    }
  ]
}

Guidelines:
- Use the smallest number of tasks that delivers the request
- "order" starts at 1 and increments; "dependencies" lists the order values of prerequisite tasks
- Only involve the agents the request actually needs
- A ui task presenting the result to the user should come last`

// rawPlan is the JSON structure the model returns for a plan.
type rawPlan struct {
	Summary string    `json:"summary"`
	Tasks   []rawTask `json:"tasks"`
}

// rawTask is the JSON structure for a single planned task before
// normalization.
type rawTask struct {
	Order        int      `json:"order"`
	Agent        string   `json:"agent"`
	Description  string   `json:"description"`
	TargetFiles  []string `json:"targetFiles"`
	Dependencies []int    `json:"dependencies"`
}

// Planner turns a user request plus project context into an ordered,
// dependency-annotated task list via one generation call.
type Planner struct {
	gen    Generator
	agents *agents.Registry
	logger *DebugLogger
}

// NewPlanner creates a Planner.
func NewPlanner(gen Generator, registry *agents.Registry, logger *DebugLogger) *Planner {
	return &Planner{
		gen:    gen,
		agents: registry,
		logger: logger,
	}
}

// CreatePlan builds the plan prompt, makes exactly one generation call, and
// parses the response into a normalized plan. It returns an error when the
// response carries no parseable structure; it never silently returns an
// empty plan. The caller owns fallback behavior.
func (p *Planner) CreatePlan(ctx context.Context, userMessage string, existingFiles []models.FileInput, recentHistory []models.ChatMessage) (*models.OrchestratorPlan, error) {
	systemPrompt := orchestratorSystemPrompt(p.agents)
	userPrompt := fmt.Sprintf(planPrompt,
		userMessage,
		existingFilesSection(existingFiles),
		historySection(recentHistory),
	)

	response, err := p.gen.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("plan generation call: %w", err)
	}

	plan, err := parsePlanResponse(response)
	if err != nil {
		p.logger.Log("plan parse failed: %v", err)
		return nil, err
	}

	p.logger.Log("plan created: %d task(s), estimated %d file(s)", len(plan.Tasks), plan.EstimatedFileCount)
	return plan, nil
}

// orchestratorSystemPrompt returns the orchestrator role's prompt template.
func orchestratorSystemPrompt(registry *agents.Registry) string {
	if d, ok := registry.Get(models.RoleOrchestrator); ok {
		return d.PromptTemplate
	}
	return ""
}

// existingFilesSection lists existing file paths, never their contents.
func existingFilesSection(files []models.FileInput) string {
	if len(files) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nExisting project files (paths only):\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- %s\n", f.Path)
	}
	return b.String()
}

// historySection renders up to the last maxHistoryEntries conversation
// turns, each truncated to maxHistoryEntryLen runes.
func historySection(history []models.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}

	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	var b strings.Builder
	b.WriteString("\nRecent conversation:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, truncate(msg.Content, maxHistoryEntryLen))
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// parsePlanResponse extracts, parses, and normalizes the model's plan.
func parsePlanResponse(response string) (*models.OrchestratorPlan, error) {
	raw, err := extractPlanJSON(response)
	if err != nil {
		return nil, err
	}

	var parsed rawPlan
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal plan JSON: %w", err)
	}
	if len(parsed.Tasks) == 0 {
		return nil, fmt.Errorf("plan contains no tasks")
	}

	return normalizePlan(parsed), nil
}

// normalizePlan applies the defaulting rules to a parsed plan: order falls
// back to 1-based position, agent strings go through synonym normalization
// (unrecognized roles become ui), and dependency/target lists default to
// empty. The estimated file count is the sum of per-task target counts with
// each bare task counting as one.
func normalizePlan(raw rawPlan) *models.OrchestratorPlan {
	tasks := make([]models.PlannedTask, 0, len(raw.Tasks))
	estimated := 0

	for i, rt := range raw.Tasks {
		order := rt.Order
		if order <= 0 {
			order = i + 1
		}

		task := models.PlannedTask{
			ID:           uuid.New().String(),
			Order:        order,
			Agent:        models.NormalizeRole(rt.Agent),
			Description:  strings.TrimSpace(rt.Description),
			TargetFiles:  append([]string{}, rt.TargetFiles...),
			Dependencies: append([]int{}, rt.Dependencies...),
		}

		if len(task.TargetFiles) == 0 {
			estimated++
		} else {
			estimated += len(task.TargetFiles)
		}

		tasks = append(tasks, task)
	}

	return &models.OrchestratorPlan{
		ID:                 uuid.New().String(),
		Summary:            strings.TrimSpace(raw.Summary),
		Tasks:              tasks,
		EstimatedFileCount: estimated,
	}
}
