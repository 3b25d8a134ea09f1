package agents

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/appforge/pkg/models"
)

func TestNewRegistry_AllRolesRegistered(t *testing.T) {
	r := NewRegistry()

	if r.Count() != len(models.AllRoles()) {
		t.Fatalf("registry has %d roles, want %d", r.Count(), len(models.AllRoles()))
	}

	for _, role := range models.AllRoles() {
		d, ok := r.Get(role)
		if !ok {
			t.Errorf("role %q missing from registry", role)
			continue
		}
		if d.DisplayName == "" {
			t.Errorf("role %q has empty display name", role)
		}
		if d.PromptTemplate == "" {
			t.Errorf("role %q has empty prompt template", role)
		}
		if len(d.OwnedPathPatterns) == 0 {
			t.Errorf("role %q owns no path patterns", role)
		}
	}
}

func TestRegistry_Get_UnknownRole(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get(models.AgentRole("wizard")); ok {
		t.Error("Get should report false for an unknown role")
	}
}

func TestRegistry_All_StableOrder(t *testing.T) {
	r := NewRegistry()

	all := r.All()
	if len(all) != len(models.AllRoles()) {
		t.Fatalf("All returned %d descriptors, want %d", len(all), len(models.AllRoles()))
	}
	for i, role := range models.AllRoles() {
		if all[i].Role != role {
			t.Errorf("All()[%d].Role = %q, want %q", i, all[i].Role, role)
		}
	}
}

func TestRegistry_Owns(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		role models.AgentRole
		path string
		want bool
	}{
		{"ui owns component", models.RoleUI, "src/components/TodoList.tsx", true},
		{"ui owns nested component", models.RoleUI, "src/components/todo/Item.tsx", true},
		{"ui owns app entry", models.RoleUI, "src/App.tsx", true},
		{"ui owns css anywhere", models.RoleUI, "src/styles/deep/app.css", true},
		{"ui does not own api route", models.RoleUI, "src/api/todos.ts", false},
		{"backend owns service", models.RoleBackend, "src/services/todos.ts", true},
		{"backend does not own component", models.RoleBackend, "src/components/App.tsx", false},
		{"database owns sql anywhere", models.RoleDatabase, "db/migrations/001_init.sql", true},
		{"database owns top-level schema", models.RoleDatabase, "schema.sql", true},
		{"devops owns dockerfile", models.RoleDevOps, "Dockerfile", true},
		{"devops owns vite config", models.RoleDevOps, "vite.config.ts", true},
		{"devops does not own source", models.RoleDevOps, "src/App.tsx", false},
		{"reviewer owns everything", models.RoleReviewer, "any/path/at/all.txt", true},
		{"unknown role owns nothing", models.AgentRole("wizard"), "src/App.tsx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Owns(tt.role, tt.path); got != tt.want {
				t.Errorf("Owns(%q, %q) = %v, want %v", tt.role, tt.path, got, tt.want)
			}
		})
	}
}

func TestRegistry_SplitOwned(t *testing.T) {
	r := NewRegistry()

	paths := []string{
		"src/components/List.tsx",
		"src/api/todos.ts",
		"src/App.tsx",
		"db/schema.sql",
	}

	owned, rest := r.SplitOwned(models.RoleUI, paths)

	wantOwned := []string{"src/components/List.tsx", "src/App.tsx"}
	wantRest := []string{"src/api/todos.ts", "db/schema.sql"}

	if len(owned) != len(wantOwned) {
		t.Fatalf("owned = %v, want %v", owned, wantOwned)
	}
	for i := range wantOwned {
		if owned[i] != wantOwned[i] {
			t.Errorf("owned[%d] = %q, want %q", i, owned[i], wantOwned[i])
		}
	}
	if len(rest) != len(wantRest) {
		t.Fatalf("rest = %v, want %v", rest, wantRest)
	}
	for i := range wantRest {
		if rest[i] != wantRest[i] {
			t.Errorf("rest[%d] = %q, want %q", i, rest[i], wantRest[i])
		}
	}
}

func TestDefaultDescriptors_PromptsCarryOutputFormat(t *testing.T) {
	// Every file-producing role must instruct the model to use file blocks;
	// the orchestrator only plans and carries no file-block instructions.
	for _, d := range DefaultDescriptors() {
		if d.Role == models.RoleOrchestrator {
			continue
		}
		if !strings.Contains(d.PromptTemplate, `<file path=`) {
			t.Errorf("role %q prompt lacks file block instructions", d.Role)
		}
	}
}

func TestDefaultDescriptors_FreshCopies(t *testing.T) {
	a := DefaultDescriptors()
	b := DefaultDescriptors()

	a[1].OwnedPathPatterns[0] = "mutated/**"
	if b[1].OwnedPathPatterns[0] == "mutated/**" {
		t.Error("DefaultDescriptors should return independent slices")
	}
}
