// Package manifest builds scenes from YAML descriptions. A manifest names
// scenes, the processors each one runs (with priorities) and the entities it
// starts with. Names are resolved through a Catalog supplied by the host.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is the root document.
type Manifest struct {
	Current string      `yaml:"current"`
	Scenes  []SceneSpec `yaml:"scenes"`
}

type SceneSpec struct {
	Name       string          `yaml:"name"`
	Processors []ProcessorSpec `yaml:"processors"`
	Entities   []EntitySpec    `yaml:"entities"`
}

// ProcessorSpec names a processor factory. Options is passed to the factory
// undecoded so each processor can define its own settings.
type ProcessorSpec struct {
	Name     string    `yaml:"name"`
	Priority int       `yaml:"priority"`
	Options  yaml.Node `yaml:"options"`
}

// EntitySpec describes Count identical entities (one when Count is zero).
// Each component node is decoded fresh per entity.
type EntitySpec struct {
	Count      int                  `yaml:"count"`
	Components map[string]yaml.Node `yaml:"components"`
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: unmarshal: %w", err)
	}
	for i, s := range m.Scenes {
		if s.Name == "" {
			return nil, fmt.Errorf("manifest: scene %d has no name", i)
		}
	}
	return &m, nil
}

// LoadFile reads and parses name, preferring a file on disk and falling back
// to the manifests embedded in the binary.
func LoadFile(name string) (*Manifest, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("manifest: load %s: %w", name, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", name, err)
	}
	return m, nil
}

// DecodeOptions decodes a processor's options node into out. An absent
// node leaves out untouched.
func (p ProcessorSpec) DecodeOptions(out any) error {
	if p.Options.Kind == 0 {
		return nil
	}
	if err := p.Options.Decode(out); err != nil {
		return fmt.Errorf("manifest: processor %s options: %w", p.Name, err)
	}
	return nil
}
