package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/pkg/models"
)

// Executor walks a plan's tasks strictly sequentially, skipping tasks whose
// dependencies did not complete, invoking one agent call per runnable task,
// and merging extracted files into the run's file registry.
//
// One executor is created per ProcessRequest call and owns that call's file
// registry and completed-task list.
type Executor struct {
	invoker  *Invoker
	emitter  *Emitter
	agents   *agents.Registry
	files    *FileRegistry
	existing []models.FileInput
	onFiles  func([]models.GeneratedFile)
	logger   *DebugLogger
}

// newExecutor creates an executor for a single run. onFiles may be nil.
func newExecutor(invoker *Invoker, emitter *Emitter, registry *agents.Registry, existing []models.FileInput, onFiles func([]models.GeneratedFile), logger *DebugLogger) *Executor {
	return &Executor{
		invoker:  invoker,
		emitter:  emitter,
		agents:   registry,
		files:    NewFileRegistry(),
		existing: existing,
		onFiles:  onFiles,
		logger:   logger,
	}
}

// Execute runs the plan's tasks in their listed order (the plan sequence is
// authoritative; Order values are dependency labels, not a sort key) and
// returns the generated files plus the record of every attempted task.
//
// Dependencies are checked once, when the task's position is reached: a task
// is runnable only if every dependency order value is in the set of tasks
// that already completed successfully. Anything else is skipped, never
// failed, and never re-checked, so a dependency on a later-ordered task can
// never be satisfied.
//
// Cancellation stops the loop: the in-flight task surfaces as failed and no
// task after it is attempted.
func (e *Executor) Execute(ctx context.Context, plan *models.OrchestratorPlan) ([]models.GeneratedFile, []models.CompletedTask) {
	completedOrders := make(map[int]bool)
	completed := make([]models.CompletedTask, 0, len(plan.Tasks))

	for _, task := range plan.Tasks {
		if ctx.Err() != nil {
			e.logger.Log("run cancelled before task %d", task.Order)
			break
		}

		if unmet := unmetDependencies(task, completedOrders); len(unmet) > 0 {
			e.emitter.Emit(models.AgentEvent{
				Type:      models.EventTaskSkipped,
				AgentRole: task.Agent,
				TaskID:    task.ID,
				Message:   fmt.Sprintf("Task %d skipped: depends on task(s) %s that did not complete", task.Order, joinOrders(unmet)),
			})
			e.logger.Log("task %d skipped, unmet dependencies: %v", task.Order, unmet)
			continue
		}

		name := e.displayName(task.Agent)
		e.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentStarted,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   fmt.Sprintf("%s started task %d", name, task.Order),
		})
		e.emitter.Emit(models.AgentEvent{
			Type:      models.EventTaskStarted,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   fmt.Sprintf("Task %d: %s", task.Order, truncate(task.Description, 120)),
		})

		startedAt := time.Now()
		result := e.invoker.RunTask(ctx, task, e.knownFiles())
		endedAt := time.Now()

		status := models.TaskStatusFailed
		if result.Success {
			status = models.TaskStatusCompleted
			completedOrders[task.Order] = true
			e.mergeFiles(task, result.Files)
		}

		completed = append(completed, models.CompletedTask{
			Task:      task,
			Status:    status,
			Result:    result,
			StartedAt: startedAt,
			EndedAt:   endedAt,
		})

		var doneMsg string
		if result.Success {
			doneMsg = fmt.Sprintf("Task %d completed: %d file(s)", task.Order, len(result.Files))
		} else {
			doneMsg = fmt.Sprintf("Task %d failed: %s", task.Order, result.Error)
		}
		e.emitter.Emit(models.AgentEvent{
			Type:      models.EventTaskCompleted,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   doneMsg,
		})
		e.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentCompleted,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   fmt.Sprintf("%s finished task %d", name, task.Order),
		})
	}

	return e.files.All(), completed
}

// mergeFiles upserts a task's output into the file registry and emits one
// file event per distinct path. The event type follows the file's action
// tag, which the invoker computed against the pre-task known-file set; a
// duplicate path inside one task's output updates content (last write wins)
// without emitting a second event.
func (e *Executor) mergeFiles(task models.PlannedTask, files []models.GeneratedFile) {
	if len(files) == 0 {
		return
	}

	emitted := make(map[string]bool, len(files))
	for _, f := range files {
		e.files.Upsert(f)

		if emitted[f.Path] {
			continue
		}
		emitted[f.Path] = true

		eventType := models.EventFileCreated
		message := fmt.Sprintf("Created %s", f.Path)
		if f.Action == models.FileActionModify {
			eventType = models.EventFileModified
			message = fmt.Sprintf("Updated %s", f.Path)
		}
		e.emitter.Emit(models.AgentEvent{
			Type:      eventType,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   message,
		})
	}

	if e.onFiles != nil {
		e.onFiles(e.files.All())
	}
}

// knownFiles returns the caller-supplied existing files overlaid with
// everything generated so far this run. Generated content wins on path
// collisions; order is existing-first, then new paths in generation order.
func (e *Executor) knownFiles() []KnownFile {
	seen := make(map[string]bool, len(e.existing))
	out := make([]KnownFile, 0, len(e.existing)+e.files.Len())

	for _, f := range e.existing {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true

		content := f.Content
		if g, ok := e.files.Get(f.Path); ok {
			content = g.Content
		}
		out = append(out, KnownFile{Path: f.Path, Content: content})
	}

	for _, g := range e.files.All() {
		if seen[g.Path] {
			continue
		}
		seen[g.Path] = true
		out = append(out, KnownFile{Path: g.Path, Content: g.Content})
	}

	return out
}

// displayName resolves a role's display name, falling back to the role tag.
func (e *Executor) displayName(role models.AgentRole) string {
	if d, ok := e.agents.Get(role); ok {
		return d.DisplayName
	}
	return string(role)
}

// unmetDependencies returns the dependency order values not yet in the
// completed-successfully set, in their declared order.
func unmetDependencies(task models.PlannedTask, completedOrders map[int]bool) []int {
	var unmet []int
	for _, dep := range task.Dependencies {
		if !completedOrders[dep] {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}

// joinOrders renders a list of order values for event messages.
func joinOrders(orders []int) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = fmt.Sprintf("%d", o)
	}
	return strings.Join(parts, ", ")
}
