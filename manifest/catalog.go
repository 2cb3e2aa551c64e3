package manifest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/swarm/ecs"
	"github.com/milk9111/swarm/ecs/component"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownProcessor = errors.New("manifest: unknown processor")
	ErrUnknownComponent = errors.New("manifest: unknown component")
)

// ProcessorFactory builds a processor from its manifest entry.
type ProcessorFactory func(spec ProcessorSpec) (ecs.Processor, error)

// ComponentDecoder turns a manifest node into a component entry.
type ComponentDecoder func(node *yaml.Node) (component.Entry, error)

// Catalog resolves the names used in manifests.
type Catalog struct {
	processors map[string]ProcessorFactory
	components map[string]ComponentDecoder
}

func NewCatalog() *Catalog {
	return &Catalog{
		processors: make(map[string]ProcessorFactory),
		components: make(map[string]ComponentDecoder),
	}
}

func (c *Catalog) RegisterProcessor(name string, f ProcessorFactory) {
	c.processors[name] = f
}

func (c *Catalog) RegisterDecoder(name string, d ComponentDecoder) {
	c.components[name] = d
}

// RegisterComponent makes handle available under name. Each manifest node
// is decoded into a new T.
func RegisterComponent[T any](c *Catalog, name string, handle component.ComponentHandle[*T]) {
	c.RegisterDecoder(name, func(node *yaml.Node) (component.Entry, error) {
		v := new(T)
		if node != nil && node.Kind != 0 {
			if err := node.Decode(v); err != nil {
				return component.Entry{}, err
			}
		}
		return component.With(handle, v), nil
	})
}

// Apply builds every scene of m and installs them in r, replacing scenes of
// the same name, then makes m.Current the current scene when set. Scenes
// are built detached from r, so a failing manifest leaves r untouched.
func (c *Catalog) Apply(m *Manifest, r *ecs.Registry) error {
	for _, spec := range m.Scenes {
		if err := c.validate(spec); err != nil {
			return err
		}
	}
	if m.Current != "" && !definesScene(m, r, m.Current) {
		return fmt.Errorf("manifest: current scene %q is not defined", m.Current)
	}

	built := make([]*ecs.Scene, len(m.Scenes))
	for i, spec := range m.Scenes {
		s := r.NewScene()
		if err := c.ApplyScene(spec, s); err != nil {
			return err
		}
		built[i] = s
	}

	for i, spec := range m.Scenes {
		r.Put(spec.Name, built[i])
	}
	if m.Current != "" {
		r.Set(m.Current)
	}
	return nil
}

func definesScene(m *Manifest, r *ecs.Registry, name string) bool {
	if _, ok := r.Get(name); ok {
		return true
	}
	for _, spec := range m.Scenes {
		if spec.Name == name {
			return true
		}
	}
	return false
}

// ApplyScene registers spec's processors and creates its entities in s.
func (c *Catalog) ApplyScene(spec SceneSpec, s *ecs.Scene) error {
	for _, ps := range spec.Processors {
		factory, ok := c.processors[ps.Name]
		if !ok {
			return fmt.Errorf("scene %s: %q: %w", spec.Name, ps.Name, ErrUnknownProcessor)
		}
		p, err := factory(ps)
		if err != nil {
			return fmt.Errorf("manifest: scene %s: processor %s: %w", spec.Name, ps.Name, err)
		}
		s.Register(p, ps.Priority)
	}
	for i, es := range spec.Entities {
		count := max(es.Count, 1)
		for n := 0; n < count; n++ {
			entries, err := c.entries(es)
			if err != nil {
				return fmt.Errorf("manifest: scene %s: entity %d: %w", spec.Name, i, err)
			}
			s.CreateEntity(entries...)
		}
	}
	return nil
}

func (c *Catalog) validate(spec SceneSpec) error {
	for _, ps := range spec.Processors {
		if _, ok := c.processors[ps.Name]; !ok {
			return fmt.Errorf("scene %s: %q: %w", spec.Name, ps.Name, ErrUnknownProcessor)
		}
	}
	for _, es := range spec.Entities {
		for name := range es.Components {
			if _, ok := c.components[name]; !ok {
				return fmt.Errorf("scene %s: %q: %w", spec.Name, name, ErrUnknownComponent)
			}
		}
	}
	return nil
}

func (c *Catalog) entries(es EntitySpec) ([]component.Entry, error) {
	names := make([]string, 0, len(es.Components))
	for name := range es.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]component.Entry, 0, len(names))
	for _, name := range names {
		decode, ok := c.components[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownComponent)
		}
		node := es.Components[name]
		entry, err := decode(&node)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
