package agent

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed personas/*.yaml
var personaFiles embed.FS

// Persona defines one agent role: its voice, its creative temperature, and
// the shape of output it is trusted to produce. Personas live in embedded
// YAML so prompt edits never touch Go code.
type Persona struct {
	Name         string         `yaml:"name"`
	Role         string         `yaml:"role"`
	SystemPrompt string         `yaml:"system_prompt"`
	Temperature  float64        `yaml:"temperature"`
	OutputSchema map[string]any `yaml:"output_schema"`
}

// Registry holds the built-in personas keyed by name.
type Registry struct {
	personas map[string]Persona
}

// LoadRegistry parses every embedded persona file.
func LoadRegistry() (*Registry, error) {
	personas := make(map[string]Persona)
	err := fs.WalkDir(personaFiles, "personas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		data, err := personaFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read persona %s: %w", path, err)
		}
		var persona Persona
		if err := yaml.Unmarshal(data, &persona); err != nil {
			return fmt.Errorf("parse persona %s: %w", path, err)
		}
		if persona.Name == "" {
			return fmt.Errorf("persona %s: name required", path)
		}
		if strings.TrimSpace(persona.SystemPrompt) == "" {
			return fmt.Errorf("persona %s: system_prompt required", path)
		}
		personas[persona.Name] = persona
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Registry{personas: personas}, nil
}

// Get returns the named persona.
func (r *Registry) Get(name string) (Persona, error) {
	persona, ok := r.personas[name]
	if !ok {
		return Persona{}, fmt.Errorf("unknown persona %q (have: %s)", name, strings.Join(r.Names(), ", "))
	}
	return persona, nil
}

// Names returns all persona names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.personas))
	for name := range r.personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
