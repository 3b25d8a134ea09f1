package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/pkg/models"
)

// defaultEventBuffer is the event channel capacity used when Config leaves
// EventBufferSize unset. Sized for a bursty run (several file events per
// task) with a consumer that flushes over HTTP.
const defaultEventBuffer = 100

// Config contains configuration options for the Orchestrator.
type Config struct {
	// Generator produces model completions for planning and agent tasks.
	Generator Generator
	// Agents is the role registry consulted for prompts and path ownership.
	// If nil, the built-in default registry is used.
	Agents *agents.Registry
	// EventBufferSize is the capacity of the progress event channel.
	// If 0, defaultEventBuffer is used.
	EventBufferSize int
	// OnFilesChanged, when set, receives the cumulative file snapshot after
	// each task that produced files. The SSE handler uses it to stream
	// "files" frames.
	OnFilesChanged func([]models.GeneratedFile)
	// Logger receives debug traces. If nil, logging is disabled.
	Logger *DebugLogger
}

// Request is one generation turn: the user's message plus whatever project
// context the caller already has.
type Request struct {
	// ProjectID identifies the project this turn belongs to, if any.
	ProjectID string `json:"projectId,omitempty"`
	// ConversationID groups turns for history persistence, if any.
	ConversationID string `json:"conversationId,omitempty"`
	// UserMessage is the natural-language request to build from.
	UserMessage string `json:"userMessage"`
	// ExistingFiles are project files that already exist before this turn.
	ExistingFiles []models.FileInput `json:"existingFiles,omitempty"`
	// RecentHistory is prior conversation context, oldest first. Only the
	// most recent entries are forwarded to the planner.
	RecentHistory []models.ChatMessage `json:"recentHistory,omitempty"`
}

// Result is the outcome of one ProcessRequest call.
type Result struct {
	// Plan is the task plan that was executed, model-built or fallback.
	Plan *models.OrchestratorPlan `json:"plan"`
	// Files is the final merged file set, in first-write order.
	Files []models.GeneratedFile `json:"files"`
	// Tasks records every attempted task with its status and timing.
	Tasks []models.CompletedTask `json:"tasks"`
	// Response is the closing Markdown summary of the run.
	Response string `json:"response"`
}

// Orchestrator coordinates one generation turn end to end:
// plan -> execute tasks sequentially -> merge files -> summarize.
// It is safe for reuse across turns, but each turn runs alone; progress for
// the current turn streams on Events().
type Orchestrator struct {
	agents  *agents.Registry
	planner *Planner
	invoker *Invoker
	emitter *Emitter
	onFiles func([]models.GeneratedFile)
	logger  *DebugLogger
}

// New creates an Orchestrator with the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("orchestrator config requires a generator")
	}

	registry := cfg.Agents
	if registry == nil {
		registry = agents.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}
	bufferSize := cfg.EventBufferSize
	if bufferSize <= 0 {
		bufferSize = defaultEventBuffer
	}

	emitter := NewEmitter(bufferSize)

	return &Orchestrator{
		agents:  registry,
		planner: NewPlanner(cfg.Generator, registry, logger),
		invoker: NewInvoker(cfg.Generator, registry, emitter, logger),
		emitter: emitter,
		onFiles: cfg.OnFilesChanged,
		logger:  logger,
	}, nil
}

// ProcessRequest executes one full generation turn:
//  1. Ask the model for a task plan; fall back to keyword planning on failure
//  2. Run the plan's tasks in listed order, one agent call per task
//  3. Merge generated files, last write per path winning
//  4. Build the closing Markdown summary
//
// Planning failures are recovered, not returned: the only errors are an
// empty user message or a nil plan bug. A cancelled context fails the
// in-flight task and stops the run early; the partial result is still
// returned.
func (o *Orchestrator) ProcessRequest(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, fmt.Errorf("user message is empty")
	}

	o.logger.Log("processing request: %s", truncate(req.UserMessage, 200))

	plannerName := o.displayName(models.RoleOrchestrator)
	o.emitter.Emit(models.AgentEvent{
		Type:      models.EventAgentStarted,
		AgentRole: models.RoleOrchestrator,
		Message:   fmt.Sprintf("%s started planning", plannerName),
	})
	o.emitter.Emit(models.AgentEvent{
		Type:      models.EventAgentThinking,
		AgentRole: models.RoleOrchestrator,
		Message:   "Analyzing the request and drafting a task plan",
	})

	plan, err := o.planner.CreatePlan(ctx, req.UserMessage, req.ExistingFiles, req.RecentHistory)
	if err != nil {
		o.logger.Log("planner failed, using keyword fallback: %v", err)
		plan = buildFallbackPlan(req.UserMessage)
		o.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentCompleted,
			AgentRole: models.RoleOrchestrator,
			Message:   fmt.Sprintf("Plan ready from keyword analysis: %d task(s)", len(plan.Tasks)),
		})
	} else {
		o.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentCompleted,
			AgentRole: models.RoleOrchestrator,
			Message:   fmt.Sprintf("Plan ready: %d task(s)", len(plan.Tasks)),
		})
	}

	exec := newExecutor(o.invoker, o.emitter, o.agents, req.ExistingFiles, o.onFiles, o.logger)
	files, tasks := exec.Execute(ctx, plan)

	o.logger.Log("run finished: %d task(s) attempted, %d file(s)", len(tasks), len(files))

	return &Result{
		Plan:     plan,
		Files:    files,
		Tasks:    tasks,
		Response: buildSummary(plan, tasks, files),
	}, nil
}

// Events returns the read-only progress channel for the current turn.
// It is consumed by a single reader (SSE handler or TUI).
func (o *Orchestrator) Events() <-chan models.AgentEvent {
	return o.emitter.Events()
}

// DroppedEvents reports how many progress events were discarded because the
// consumer fell behind.
func (o *Orchestrator) DroppedEvents() uint64 {
	return o.emitter.DroppedCount()
}

// Close closes the event channel. Call it once no further turns will run;
// it is safe to call more than once.
func (o *Orchestrator) Close() {
	o.emitter.Close()
}

func (o *Orchestrator) displayName(role models.AgentRole) string {
	if d, ok := o.agents.Get(role); ok {
		return d.DisplayName
	}
	return string(role)
}
