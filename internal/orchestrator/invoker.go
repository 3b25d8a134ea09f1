package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/pkg/models"
)

// maxFileContextLen bounds how much of each relevant file's content is shown
// to an agent, in runes. Paths outside the agent's owned patterns are listed
// bare, so prompt size stays proportional to owned content only.
const maxFileContextLen = 8000

// KnownFile is one file visible to a task: either supplied by the caller
// with the request or generated by an earlier task in the same run.
type KnownFile struct {
	Path    string
	Content string
}

// Invoker runs a single task against its agent: it assembles the prompt from
// the task and the known-file context, makes one generation call, and parses
// the response into generated files.
type Invoker struct {
	gen     Generator
	agents  *agents.Registry
	emitter *Emitter
	logger  *DebugLogger
}

// NewInvoker creates an Invoker.
func NewInvoker(gen Generator, registry *agents.Registry, emitter *Emitter, logger *DebugLogger) *Invoker {
	return &Invoker{
		gen:     gen,
		agents:  registry,
		emitter: emitter,
		logger:  logger,
	}
}

// RunTask executes one task and returns its result. Failures never escape as
// errors: a failed generation call and a response with zero extractable
// files both come back as Success=false with distinct error text.
func (i *Invoker) RunTask(ctx context.Context, task models.PlannedTask, known []KnownFile) models.TaskResult {
	descriptor, ok := i.agents.Get(task.Agent)
	if !ok {
		msg := fmt.Sprintf("no agent registered for role %q", task.Agent)
		i.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentError,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   msg,
		})
		return models.TaskResult{Success: false, Error: msg}
	}

	paths := make([]string, len(known))
	contentByPath := make(map[string]string, len(known))
	for idx, f := range known {
		paths[idx] = f.Path
		contentByPath[f.Path] = f.Content
	}
	ownedPaths, otherPaths := i.agents.SplitOwned(task.Agent, paths)

	userPrompt := buildTaskPrompt(task, ownedPaths, otherPaths, contentByPath)

	i.emitter.Emit(models.AgentEvent{
		Type:      models.EventAgentThinking,
		AgentRole: task.Agent,
		TaskID:    task.ID,
		Message:   fmt.Sprintf("Working on: %s", truncate(task.Description, 120)),
	})

	wroteOnce := false
	response, err := i.gen.GenerateStream(ctx, descriptor.PromptTemplate, userPrompt, func(string) {
		if !wroteOnce {
			wroteOnce = true
			i.emitter.Emit(models.AgentEvent{
				Type:      models.EventAgentWriting,
				AgentRole: task.Agent,
				TaskID:    task.ID,
				Message:   fmt.Sprintf("%s is writing files", descriptor.DisplayName),
			})
		}
	})
	if err != nil {
		msg := fmt.Sprintf("generation call failed: %v", err)
		i.logger.Log("task %d (%s): %s", task.Order, task.Agent, msg)
		i.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentError,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   msg,
		})
		return models.TaskResult{Success: false, Error: msg}
	}

	blocks := extractFileBlocks(response)
	if len(blocks) == 0 {
		msg := "no files generated"
		i.logger.Log("task %d (%s): response had no file blocks (%d chars)", task.Order, task.Agent, len(response))
		i.emitter.Emit(models.AgentEvent{
			Type:      models.EventAgentError,
			AgentRole: task.Agent,
			TaskID:    task.ID,
			Message:   msg,
		})
		return models.TaskResult{Success: false, Error: msg}
	}

	files := make([]models.GeneratedFile, 0, len(blocks))
	for _, block := range blocks {
		action := models.FileActionCreate
		if _, exists := contentByPath[block.Path]; exists {
			action = models.FileActionModify
		}
		files = append(files, models.GeneratedFile{
			Path:     block.Path,
			Content:  block.Content,
			Language: inferLanguage(block.Path),
			Action:   action,
		})
	}

	i.logger.Log("task %d (%s): extracted %d file(s)", task.Order, task.Agent, len(files))
	return models.TaskResult{Success: true, Files: files}
}

// buildTaskPrompt assembles the user prompt for a task: the description,
// expected target files, owned files with bounded full content, and a bare
// listing of every other known path.
func buildTaskPrompt(task models.PlannedTask, ownedPaths, otherPaths []string, contentByPath map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Task: %s\n", task.Description)

	if len(task.TargetFiles) > 0 {
		b.WriteString("\nExpected files:\n")
		for _, path := range task.TargetFiles {
			fmt.Fprintf(&b, "- %s\n", path)
		}
	}

	if len(ownedPaths) > 0 {
		b.WriteString("\nRelevant project files:\n")
		for _, path := range ownedPaths {
			fmt.Fprintf(&b, "\n<file path=%q>\n%s\n</file>\n", path, truncate(contentByPath[path], maxFileContextLen))
		}
	}

	if len(otherPaths) > 0 {
		b.WriteString("\nOther project files (paths only):\n")
		for _, path := range otherPaths {
			fmt.Fprintf(&b, "- %s\n", path)
		}
	}

	return b.String()
}
