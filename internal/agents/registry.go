// Package agents defines the specialized agent roles and the process-wide
// registry that maps each role to its display name, system prompt, and the
// path patterns it owns.
package agents

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// Registry is the process-wide lookup table from agent role to descriptor.
// It is populated once at construction and read-only afterwards.
type Registry struct {
	// descriptors maps roles to their immutable descriptors.
	descriptors map[models.AgentRole]models.AgentDescriptor
	// mu guards descriptors for concurrent readers.
	mu sync.RWMutex
}

// NewRegistry creates a registry populated with the built-in descriptors.
func NewRegistry() *Registry {
	r := &Registry{
		descriptors: make(map[models.AgentRole]models.AgentDescriptor),
	}
	for _, d := range DefaultDescriptors() {
		r.descriptors[d.Role] = d
	}
	return r
}

// NewRegistryFromFile creates a registry from the built-in descriptors with
// overrides applied from a YAML agents file. The role set is closed: the file
// may adjust display names, prompts, and owned patterns, but cannot add roles.
func NewRegistryFromFile(path string) (*Registry, error) {
	r := NewRegistry()
	if err := r.applyFile(path); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the descriptor for a role.
func (r *Registry) Get(role models.AgentRole) (models.AgentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[role]
	return d, ok
}

// All returns every descriptor in the stable role order.
func (r *Registry) All() []models.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AgentDescriptor, 0, len(r.descriptors))
	for _, role := range models.AllRoles() {
		if d, ok := r.descriptors[role]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of registered roles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Owns reports whether the role's owned patterns match the given path.
// Paths are normalized to forward slashes before matching.
func (r *Registry) Owns(role models.AgentRole, path string) bool {
	d, ok := r.Get(role)
	if !ok {
		return false
	}

	normalized := filepath.ToSlash(path)
	for _, pattern := range d.OwnedPathPatterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// SplitOwned partitions paths into those the role owns and the rest,
// preserving input order within each partition.
func (r *Registry) SplitOwned(role models.AgentRole, paths []string) (owned, rest []string) {
	for _, p := range paths {
		if r.Owns(role, p) {
			owned = append(owned, p)
		} else {
			rest = append(rest, p)
		}
	}
	return owned, rest
}

// validatePatterns rejects descriptors whose glob patterns do not compile.
func validatePatterns(role models.AgentRole, patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("agent %s: invalid path pattern %q", role, pattern)
		}
	}
	return nil
}
