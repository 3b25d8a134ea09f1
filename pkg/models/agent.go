package models

import "strings"

// AgentRole identifies which specialized agent handles a piece of work.
type AgentRole string

const (
	// RoleOrchestrator plans work and coordinates the other agents.
	RoleOrchestrator AgentRole = "orchestrator"
	// RoleUI builds user interface components, pages, and styling.
	RoleUI AgentRole = "ui"
	// RoleBackend builds API routes, server logic, and integrations.
	RoleBackend AgentRole = "backend"
	// RoleDatabase designs schemas, migrations, and data-access code.
	RoleDatabase AgentRole = "database"
	// RoleDevOps handles build tooling, deployment, and environment config.
	RoleDevOps AgentRole = "devops"
	// RoleReviewer reviews generated code for defects and inconsistencies.
	RoleReviewer AgentRole = "reviewer"
)

// Valid returns true if the role is a known value.
func (r AgentRole) Valid() bool {
	switch r {
	case RoleOrchestrator, RoleUI, RoleBackend, RoleDatabase, RoleDevOps, RoleReviewer:
		return true
	default:
		return false
	}
}

// AllRoles returns every known agent role in a stable order.
func AllRoles() []AgentRole {
	return []AgentRole{
		RoleOrchestrator,
		RoleUI,
		RoleBackend,
		RoleDatabase,
		RoleDevOps,
		RoleReviewer,
	}
}

// roleSynonyms maps role aliases the planning model commonly emits to
// canonical roles.
var roleSynonyms = map[string]AgentRole{
	"frontend":       RoleUI,
	"front-end":      RoleUI,
	"client":         RoleUI,
	"web":            RoleUI,
	"db":             RoleDatabase,
	"data":           RoleDatabase,
	"schema":         RoleDatabase,
	"sql":            RoleDatabase,
	"api":            RoleBackend,
	"server":         RoleBackend,
	"fullstack":      RoleBackend,
	"infra":          RoleDevOps,
	"infrastructure": RoleDevOps,
	"deploy":         RoleDevOps,
	"deployment":     RoleDevOps,
	"ops":            RoleDevOps,
	"qa":             RoleReviewer,
	"review":         RoleReviewer,
	"testing":        RoleReviewer,
}

// NormalizeRole maps a raw role string to a canonical AgentRole.
// Known synonyms (frontend, db, ...) resolve to their canonical role;
// anything unrecognized falls back to RoleUI.
func NormalizeRole(raw string) AgentRole {
	s := strings.ToLower(strings.TrimSpace(raw))
	if r := AgentRole(s); r.Valid() {
		return r
	}
	if r, ok := roleSynonyms[s]; ok {
		return r
	}
	return RoleUI
}

// AgentDescriptor describes one specialized agent: the display name shown to
// users, the system prompt it runs with, and the path patterns it owns.
// Descriptors are created once at process start and never mutated.
type AgentDescriptor struct {
	// Role is the enumerated role this descriptor belongs to.
	Role AgentRole `json:"role"`
	// DisplayName is the human-readable agent name used in events and summaries.
	DisplayName string `json:"displayName"`
	// PromptTemplate is the system prompt sent with every task for this role.
	PromptTemplate string `json:"promptTemplate"`
	// OwnedPathPatterns lists glob patterns for the files this agent is shown
	// with full content and is expected to edit.
	OwnedPathPatterns []string `json:"ownedPathPatterns"`
}
