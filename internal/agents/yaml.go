package agents

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// agentsFile is the on-disk structure of an agents override file.
// Every field is optional; empty fields keep the built-in value.
type agentsFile struct {
	Agents map[string]agentOverride `yaml:"agents"`
}

// agentOverride adjusts a single built-in descriptor.
type agentOverride struct {
	DisplayName string   `yaml:"display_name"`
	Prompt      string   `yaml:"prompt"`
	OwnedPaths  []string `yaml:"owned_paths"`
}

// applyFile overlays descriptor overrides from a YAML file onto the registry.
// The role set is closed: a key that is not a canonical role is an error.
func (r *Registry) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read agents file: %w", err)
	}

	var file agentsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse agents file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for rawRole, override := range file.Agents {
		role := models.AgentRole(rawRole)
		d, ok := r.descriptors[role]
		if !ok {
			return fmt.Errorf("agents file: unknown role %q", rawRole)
		}

		if override.DisplayName != "" {
			d.DisplayName = override.DisplayName
		}
		if override.Prompt != "" {
			d.PromptTemplate = override.Prompt
		}
		if len(override.OwnedPaths) > 0 {
			if err := validatePatterns(role, override.OwnedPaths); err != nil {
				return err
			}
			d.OwnedPathPatterns = append([]string{}, override.OwnedPaths...)
		}

		r.descriptors[role] = d
	}

	return nil
}
