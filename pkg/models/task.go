package models

import "time"

// TaskStatus records how an executed task ended.
type TaskStatus string

const (
	// TaskStatusCompleted indicates the task produced a successful result.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task's generation call failed or
	// produced no usable output.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// PlannedTask is one unit of work in an orchestrator plan, assigned to a
// single agent role. Tasks are immutable once part of a plan.
type PlannedTask struct {
	// ID uniquely identifies the task for event correlation.
	ID string `json:"id"`
	// Order is the task's 1-based position, unique within a plan.
	// Dependency references point at these values.
	Order int `json:"order"`
	// Agent is the role responsible for this task.
	Agent AgentRole `json:"agent"`
	// Description tells the agent what to build.
	Description string `json:"description"`
	// TargetFiles hints which paths the task is expected to produce.
	TargetFiles []string `json:"targetFiles,omitempty"`
	// Dependencies lists order values of tasks that must complete
	// successfully before this task may run.
	Dependencies []int `json:"dependencies,omitempty"`
}

// TaskResult is the outcome of invoking an agent for a single task.
type TaskResult struct {
	// Success is false when the generation call failed or no files could be
	// extracted from the response.
	Success bool `json:"success"`
	// Files holds the files extracted from the agent's response. Empty is
	// allowed and implies Success is false.
	Files []GeneratedFile `json:"files,omitempty"`
	// Error describes why the task failed, empty on success.
	Error string `json:"error,omitempty"`
}

// CompletedTask records the outcome of one executed task. The executor
// accumulates these append-only; they feed the dependency-satisfaction set
// and the final summary.
type CompletedTask struct {
	// Task is the planned task that was executed.
	Task PlannedTask `json:"task"`
	// Status is completed or failed. Skipped tasks never appear here.
	Status TaskStatus `json:"status"`
	// Result is the agent invocation outcome.
	Result TaskResult `json:"result"`
	// StartedAt is when execution of the task began.
	StartedAt time.Time `json:"startedAt"`
	// EndedAt is when the task's result was recorded.
	EndedAt time.Time `json:"endedAt"`
}
