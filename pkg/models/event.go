package models

import "time"

// EventType classifies a progress notification emitted while a request is
// being planned and executed.
type EventType string

const (
	// EventAgentStarted fires when an agent begins work on the request or a task.
	EventAgentStarted EventType = "agent_started"
	// EventAgentThinking fires when an agent's generation call is issued.
	EventAgentThinking EventType = "agent_thinking"
	// EventAgentWriting fires when an agent starts producing file output.
	EventAgentWriting EventType = "agent_writing"
	// EventAgentCompleted fires when an agent finishes, successfully or not.
	EventAgentCompleted EventType = "agent_completed"
	// EventAgentError fires when an agent's generation call fails or yields
	// no usable files.
	EventAgentError EventType = "agent_error"
	// EventTaskStarted fires when a task's dependencies are satisfied and
	// execution begins.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted fires when a task's result is recorded, whether
	// completed or failed.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskSkipped fires when a task is passed over because a dependency
	// did not complete successfully.
	EventTaskSkipped EventType = "task_skipped"
	// EventFileCreated fires the first time a new path is merged into the
	// file registry.
	EventFileCreated EventType = "file_created"
	// EventFileModified fires the first time an existing path is overwritten
	// in the file registry.
	EventFileModified EventType = "file_modified"
)

// Valid returns true if the event type is a known value.
func (t EventType) Valid() bool {
	switch t {
	case EventAgentStarted, EventAgentThinking, EventAgentWriting,
		EventAgentCompleted, EventAgentError, EventTaskStarted,
		EventTaskCompleted, EventTaskSkipped, EventFileCreated,
		EventFileModified:
		return true
	default:
		return false
	}
}

// AgentEvent is a transient progress notification. Events are wire-format
// only and never persisted; the emitter stamps ID and Timestamp when a
// component leaves them zero.
type AgentEvent struct {
	// ID is a lexically sortable identifier used as the SSE event id.
	// It is not part of the JSON payload.
	ID string `json:"-"`
	// Type classifies the transition this event reports.
	Type EventType `json:"type"`
	// AgentRole is the role involved, when the event concerns an agent.
	AgentRole AgentRole `json:"agentRole,omitempty"`
	// TaskID correlates the event with a planned task, when applicable.
	TaskID string `json:"taskId,omitempty"`
	// Message is a human-readable description of the transition.
	Message string `json:"message"`
	// Payload carries optional structured data for consumers that want more
	// than the message text.
	Payload any `json:"payload,omitempty"`
	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}
