package sim

import (
	"fmt"
	"log"

	"github.com/milk9111/swarm/ecs"
	"github.com/milk9111/swarm/manifest"
	"github.com/milk9111/swarm/script"
)

// ScriptOptions configures a "script" processor entry.
type ScriptOptions struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Bindings exposes the sim components to scripts under their manifest names.
func Bindings() []script.Binding {
	return []script.Binding{
		script.Bind("position", PositionComponent),
		script.Bind("velocity", VelocityComponent),
		script.Bind("body", BodyComponent),
		script.Bind("lifetime", LifetimeComponent),
	}
}

// NewCatalog resolves the component and processor names used by the sim
// manifests. Script processors log through logger.
func NewCatalog(logger *log.Logger) *manifest.Catalog {
	c := manifest.NewCatalog()
	manifest.RegisterComponent(c, "position", PositionComponent)
	manifest.RegisterComponent(c, "velocity", VelocityComponent)
	manifest.RegisterComponent(c, "body", BodyComponent)
	manifest.RegisterComponent(c, "lifetime", LifetimeComponent)

	c.RegisterProcessor("physics", func(spec manifest.ProcessorSpec) (ecs.Processor, error) {
		var opts PhysicsOptions
		if err := spec.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return NewPhysics(opts), nil
	})
	c.RegisterProcessor("bounds", func(spec manifest.ProcessorSpec) (ecs.Processor, error) {
		var opts BoundsOptions
		if err := spec.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return NewBounds(opts), nil
	})
	c.RegisterProcessor("reaper", func(spec manifest.ProcessorSpec) (ecs.Processor, error) {
		return &Reaper{}, nil
	})
	c.RegisterProcessor("script", func(spec manifest.ProcessorSpec) (ecs.Processor, error) {
		var opts ScriptOptions
		if err := spec.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		if opts.Path == "" {
			return nil, fmt.Errorf("script processor needs a path")
		}
		if opts.Name == "" {
			opts.Name = opts.Path
		}
		src, err := manifest.LoadScript(opts.Path)
		if err != nil {
			return nil, err
		}
		return script.NewProcessor(opts.Name, src,
			script.WithBindings(Bindings()...),
			script.WithLogger(logger),
		)
	})
	return c
}
