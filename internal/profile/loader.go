package profile

import (
	"fmt"
	"os"

	"github.com/deadwood-scan/deadwood/internal/config"
	"gopkg.in/yaml.v3"
)

// Profile is an optional per-project scan policy loaded from a YAML file.
// Fields left empty keep the configured defaults.
type Profile struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"` // replaces the duplicate-detection allow-list
	Exclude    []string `yaml:"exclude"`    // replaces the exclusion markers
}

// Loader loads scan profiles from YAML files
type Loader struct {
	path string
}

// NewLoader creates a new profile loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads and parses the profile file
func (l *Loader) Load() (*Profile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", l.path, err)
	}

	// Set defaults
	if p.Name == "" {
		p.Name = "custom"
	}

	p.Extensions = compact(p.Extensions)
	p.Exclude = compact(p.Exclude)

	return &p, nil
}

// Apply overrides the config fields the profile sets
func (p *Profile) Apply(cfg *config.Config) {
	if len(p.Extensions) > 0 {
		cfg.Extensions = p.Extensions
	}
	if len(p.Exclude) > 0 {
		cfg.Exclude = p.Exclude
	}
}

// compact drops empty entries from a list
func compact(items []string) []string {
	var out []string
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
