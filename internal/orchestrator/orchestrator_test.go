package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ShayCichocki/appforge/pkg/models"
)

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("expected error for missing generator")
	}
	if !strings.Contains(err.Error(), "generator") {
		t.Errorf("error = %q, want it to mention the generator", err.Error())
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	orch, err := New(Config{Generator: &mockGenerator{}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if orch.Events() == nil {
		t.Fatal("expected non-nil events channel")
	}
	orch.Close()
}

func TestOrchestrator_ProcessRequest_EmptyMessage(t *testing.T) {
	orch, err := New(Config{Generator: &mockGenerator{}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer orch.Close()

	for _, message := range []string{"", "   \n\t"} {
		if _, err := orch.ProcessRequest(context.Background(), Request{UserMessage: message}); err == nil {
			t.Errorf("UserMessage %q: expected error", message)
		}
	}
}

func TestOrchestrator_ProcessRequest_HappyPath(t *testing.T) {
	gen := &mockGenerator{
		planResponse: "```json\n" + `{
  "summary": "Todo app with persistence",
  "tasks": [
    {"order": 1, "agent": "database", "description": "Design the schema", "targetFiles": ["db/schema.sql"], "dependencies": []},
    {"order": 2, "agent": "ui", "description": "Build the interface", "targetFiles": ["src/App.tsx"], "dependencies": [1]}
  ]
}` + "\n```",
		taskResponses: []string{
			"<file path=\"db/schema.sql\">\nCREATE TABLE todos (id INTEGER PRIMARY KEY);\n</file>",
			"<file path=\"src/App.tsx\">\nexport default function App() {}\n</file>",
		},
	}

	orch, err := New(Config{Generator: gen})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := orch.ProcessRequest(context.Background(), Request{UserMessage: "build me a todo app"})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}

	if len(result.Plan.Tasks) != 2 {
		t.Fatalf("plan has %d tasks, want 2", len(result.Plan.Tasks))
	}
	if result.Plan.EstimatedFileCount != 2 {
		t.Errorf("EstimatedFileCount = %d, want 2", result.Plan.EstimatedFileCount)
	}

	if len(result.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(result.Files))
	}
	if result.Files[0].Path != "db/schema.sql" || result.Files[0].Language != "sql" {
		t.Errorf("first file = %q (%s), want db/schema.sql (sql)", result.Files[0].Path, result.Files[0].Language)
	}
	if result.Files[1].Path != "src/App.tsx" || result.Files[1].Language != "typescript" {
		t.Errorf("second file = %q (%s), want src/App.tsx (typescript)", result.Files[1].Path, result.Files[1].Language)
	}

	if len(result.Tasks) != 2 {
		t.Fatalf("got %d task records, want 2", len(result.Tasks))
	}
	for i, c := range result.Tasks {
		if c.Status != models.TaskStatusCompleted {
			t.Errorf("task %d status = %q, want %q", i, c.Status, models.TaskStatusCompleted)
		}
	}

	if !strings.Contains(result.Response, "## Files created") {
		t.Errorf("response missing created section:\n%s", result.Response)
	}
	if !strings.Contains(result.Response, "Finished 2 of 2 task(s)") {
		t.Errorf("response missing totals:\n%s", result.Response)
	}

	// The run opens with the planning sequence, then per-task execution.
	orch.Close()
	var got []models.EventType
	for ev := range orch.Events() {
		got = append(got, ev.Type)
	}
	wantPrefix := []models.EventType{
		models.EventAgentStarted,
		models.EventAgentThinking,
		models.EventAgentCompleted,
		models.EventAgentStarted,
		models.EventTaskStarted,
	}
	if len(got) < len(wantPrefix) {
		t.Fatalf("got %d events, want at least %d", len(got), len(wantPrefix))
	}
	for i, want := range wantPrefix {
		if got[i] != want {
			t.Errorf("event %d = %q, want %q", i, got[i], want)
		}
	}
	if orch.DroppedEvents() != 0 {
		t.Errorf("DroppedEvents = %d, want 0", orch.DroppedEvents())
	}
}

func TestOrchestrator_ProcessRequest_FallbackOnPlannerFailure(t *testing.T) {
	gen := &mockGenerator{
		planErr: fmt.Errorf("model unavailable"),
		taskResponses: []string{
			"<file path=\"db/schema.sql\">\nCREATE TABLE items (id INTEGER);\n</file>",
			"<file path=\"index.html\">\n<!doctype html>\n</file>",
		},
	}

	orch, err := New(Config{Generator: gen})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := orch.ProcessRequest(context.Background(), Request{UserMessage: "a site backed by a database"})
	if err != nil {
		t.Fatalf("ProcessRequest returned error: %v, want fallback recovery", err)
	}

	if result.Plan.Summary != "Plan derived from keywords in the request" {
		t.Errorf("plan summary = %q, want the fallback summary", result.Plan.Summary)
	}
	if len(result.Plan.Tasks) != 2 {
		t.Fatalf("fallback plan has %d tasks, want 2", len(result.Plan.Tasks))
	}
	last := result.Plan.Tasks[len(result.Plan.Tasks)-1]
	if last.Agent != models.RoleUI {
		t.Errorf("last fallback task agent = %q, want %q", last.Agent, models.RoleUI)
	}
	if len(result.Files) != 2 {
		t.Errorf("got %d files, want 2", len(result.Files))
	}

	orch.Close()
	var planningDone string
	for ev := range orch.Events() {
		if ev.Type == models.EventAgentError {
			t.Errorf("unexpected agent_error during recovered planning: %q", ev.Message)
		}
		if ev.Type == models.EventAgentCompleted && ev.AgentRole == models.RoleOrchestrator && planningDone == "" {
			planningDone = ev.Message
		}
	}
	if !strings.Contains(planningDone, "keyword") {
		t.Errorf("planning completion message = %q, want it to mention the keyword fallback", planningDone)
	}
}

func TestOrchestrator_ProcessRequest_FileSnapshots(t *testing.T) {
	gen := &mockGenerator{
		planResponse: `{"tasks": [
			{"order": 1, "agent": "database", "description": "schema"},
			{"order": 2, "agent": "ui", "description": "page", "dependencies": [1]}
		]}`,
		taskResponses: []string{
			"<file path=\"db/schema.sql\">\nCREATE TABLE a (id INTEGER);\n</file>",
			"<file path=\"index.html\">\n<!doctype html>\n</file>",
		},
	}

	var snapshots [][]models.GeneratedFile
	orch, err := New(Config{
		Generator: gen,
		OnFilesChanged: func(files []models.GeneratedFile) {
			snapshots = append(snapshots, files)
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer orch.Close()

	if _, err := orch.ProcessRequest(context.Background(), Request{UserMessage: "build it"}); err != nil {
		t.Fatalf("ProcessRequest returned error: %v", err)
	}

	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if len(snapshots[0]) != 1 || len(snapshots[1]) != 2 {
		t.Errorf("snapshot sizes = %d, %d, want cumulative 1, 2", len(snapshots[0]), len(snapshots[1]))
	}
}

func TestOrchestrator_CloseIsIdempotent(t *testing.T) {
	orch, err := New(Config{Generator: &mockGenerator{}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	orch.Close()
	orch.Close()

	if _, ok := <-orch.Events(); ok {
		t.Error("expected events channel to be closed")
	}
}
