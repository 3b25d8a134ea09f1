package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEventType_Valid(t *testing.T) {
	valid := []EventType{
		EventAgentStarted, EventAgentThinking, EventAgentWriting,
		EventAgentCompleted, EventAgentError, EventTaskStarted,
		EventTaskCompleted, EventTaskSkipped, EventFileCreated,
		EventFileModified,
	}

	for _, et := range valid {
		if !et.Valid() {
			t.Errorf("EventType(%q) should be valid", et)
		}
	}

	invalid := []EventType{"", "agent_done", "file_deleted", "AGENT_STARTED"}
	for _, et := range invalid {
		if et.Valid() {
			t.Errorf("EventType(%q) should not be valid", et)
		}
	}
}

func TestAgentEvent_WireShape(t *testing.T) {
	evt := AgentEvent{
		ID:        "01JEXAMPLE",
		Type:      EventTaskStarted,
		AgentRole: RoleBackend,
		TaskID:    "t2",
		Message:   "Backend Engineer started",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal AgentEvent: %v", err)
	}
	s := string(raw)

	for _, key := range []string{`"type"`, `"agentRole"`, `"taskId"`, `"message"`, `"timestamp"`} {
		if !strings.Contains(s, key) {
			t.Errorf("AgentEvent JSON missing key %s: %s", key, s)
		}
	}
	if strings.Contains(s, "01JEXAMPLE") {
		t.Errorf("event ID should not appear in the JSON payload: %s", s)
	}
	if strings.Contains(s, `"payload"`) {
		t.Errorf("nil payload should be omitted: %s", s)
	}
}

func TestAgentEvent_OptionalFieldsOmitted(t *testing.T) {
	evt := AgentEvent{
		Type:      EventAgentThinking,
		Message:   "Analyzing your request",
		Timestamp: time.Now(),
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal AgentEvent: %v", err)
	}
	s := string(raw)

	if strings.Contains(s, "agentRole") {
		t.Errorf("empty agentRole should be omitted: %s", s)
	}
	if strings.Contains(s, "taskId") {
		t.Errorf("empty taskId should be omitted: %s", s)
	}
}
