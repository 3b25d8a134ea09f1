package orchestrator

import (
	"testing"

	"github.com/ShayCichocki/appforge/pkg/models"
)

func TestBuildFallbackPlan_RoleSelection(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantRoles []models.AgentRole
	}{
		{
			name:      "plain request gets only ui",
			message:   "Make me a landing page",
			wantRoles: []models.AgentRole{models.RoleUI},
		},
		{
			name:      "database keyword",
			message:   "Build an app with a postgres database",
			wantRoles: []models.AgentRole{models.RoleDatabase, models.RoleUI},
		},
		{
			name:      "schema keyword",
			message:   "Design a schema for orders",
			wantRoles: []models.AgentRole{models.RoleDatabase, models.RoleUI},
		},
		{
			name:      "backend keyword",
			message:   "I need a REST api for invoices",
			wantRoles: []models.AgentRole{models.RoleBackend, models.RoleUI},
		},
		{
			name:      "server keyword",
			message:   "Spin up a server that returns jokes",
			wantRoles: []models.AgentRole{models.RoleBackend, models.RoleUI},
		},
		{
			name:      "database and backend",
			message:   "A todo app with a sql table and an api endpoint",
			wantRoles: []models.AgentRole{models.RoleDatabase, models.RoleBackend, models.RoleUI},
		},
		{
			name:      "keywords matched case-insensitively",
			message:   "BUILD A DATABASE BACKED API",
			wantRoles: []models.AgentRole{models.RoleDatabase, models.RoleBackend, models.RoleUI},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := buildFallbackPlan(tt.message)

			if len(plan.Tasks) != len(tt.wantRoles) {
				t.Fatalf("got %d tasks, want %d", len(plan.Tasks), len(tt.wantRoles))
			}
			for i, want := range tt.wantRoles {
				if plan.Tasks[i].Agent != want {
					t.Errorf("task %d agent = %q, want %q", i, plan.Tasks[i].Agent, want)
				}
			}
		})
	}
}

func TestBuildFallbackPlan_UITaskAlwaysLast(t *testing.T) {
	for _, message := range []string{
		"anything at all",
		"a database heavy analytics tool",
		"a backend api with a sql schema",
	} {
		plan := buildFallbackPlan(message)
		last := plan.Tasks[len(plan.Tasks)-1]
		if last.Agent != models.RoleUI {
			t.Errorf("message %q: last task agent = %q, want %q", message, last.Agent, models.RoleUI)
		}
	}
}

func TestBuildFallbackPlan_DependencyChain(t *testing.T) {
	plan := buildFallbackPlan("a todo app with a database and api")

	if len(plan.Tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(plan.Tasks))
	}

	first := plan.Tasks[0]
	if first.Order != 1 {
		t.Errorf("first task order = %d, want 1", first.Order)
	}
	if len(first.Dependencies) != 0 {
		t.Errorf("first task dependencies = %v, want none", first.Dependencies)
	}

	for i := 1; i < len(plan.Tasks); i++ {
		task := plan.Tasks[i]
		if task.Order != i+1 {
			t.Errorf("task %d order = %d, want %d", i, task.Order, i+1)
		}
		if len(task.Dependencies) != 1 || task.Dependencies[0] != plan.Tasks[i-1].Order {
			t.Errorf("task %d dependencies = %v, want [%d]", i, task.Dependencies, plan.Tasks[i-1].Order)
		}
	}
}

func TestBuildFallbackPlan_Metadata(t *testing.T) {
	plan := buildFallbackPlan("a page with a table of contents")

	if plan.ID == "" {
		t.Error("expected a plan ID")
	}
	if plan.Summary == "" {
		t.Error("expected a plan summary")
	}
	if plan.EstimatedFileCount != len(plan.Tasks) {
		t.Errorf("EstimatedFileCount = %d, want %d", plan.EstimatedFileCount, len(plan.Tasks))
	}
	for i, task := range plan.Tasks {
		if task.ID == "" {
			t.Errorf("task %d has no ID", i)
		}
		if task.Description == "" {
			t.Errorf("task %d has no description", i)
		}
	}
}
