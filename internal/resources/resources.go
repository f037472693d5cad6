// Package resources serves the safety-resource directory: official
// Bangladesh reporting hotlines and per-platform abuse-reporting links.
package resources

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed directory.yaml
var directoryYAML []byte

// Hotline is an official reporting or support contact.
type Hotline struct {
	Name    string `yaml:"name" json:"name"`
	Phone   string `yaml:"phone" json:"phone"`
	Email   string `yaml:"email,omitempty" json:"email,omitempty"`
	Purpose string `yaml:"purpose" json:"purpose"`
}

// Platform is a direct abuse-reporting link for a social platform.
type Platform struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Directory is the full safety-resource listing.
type Directory struct {
	Hotlines  []Hotline  `yaml:"hotlines" json:"hotlines"`
	Platforms []Platform `yaml:"platforms" json:"platforms"`
}

// Load parses the embedded directory.
func Load() (*Directory, error) {
	var d Directory
	if err := yaml.Unmarshal(directoryYAML, &d); err != nil {
		return nil, fmt.Errorf("resources: parse directory: %w", err)
	}
	if len(d.Hotlines) == 0 || len(d.Platforms) == 0 {
		return nil, fmt.Errorf("resources: directory is incomplete")
	}
	return &d, nil
}
