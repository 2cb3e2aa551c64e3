// Package script runs tengo scripts as scene processors. Each tick the
// script's top level runs once with these globals:
//
//	scene  functions over the current scene (see below)
//	args   array of the arguments forwarded to Tick
//	state  map that persists across ticks
//
// scene functions: create(), destroy(id), destroy_now(id), is_alive(id),
// has(id, name), get(id, name), set(id, name, map), remove(id, name),
// entities_with(name), count().
package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/swarm/ecs"
)

type Option func(*Processor)

// WithBindings exposes components to the script by name.
func WithBindings(bindings ...Binding) Option {
	return func(p *Processor) {
		for _, b := range bindings {
			p.bindings[b.Name] = b
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithPriority(priority int) Option {
	return func(p *Processor) {
		p.SetPriority(priority)
	}
}

// Processor is an ecs.Processor backed by a compiled tengo script. It is a
// Named processor, so several scripts can share a scene.
type Processor struct {
	ecs.ProcessorBase

	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	bindings map[string]Binding
	logger   *log.Logger
}

// NewProcessor compiles src. Compile errors are returned; runtime errors are
// logged per tick and do not stop the scene.
func NewProcessor(name string, src []byte, opts ...Option) (*Processor, error) {
	p := &Processor{
		name:     name,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		bindings: map[string]Binding{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	s := tengo.NewScript(src)
	_ = s.Add("scene", map[string]any{})
	_ = s.Add("args", []any{})
	_ = s.Add("state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: %s: compile: %w", name, err)
	}
	p.compiled = compiled
	return p, nil
}

func (p *Processor) Name() string {
	return p.name
}

// State returns the script's persistent state as plain Go values.
func (p *Processor) State() map[string]any {
	out, _ := tengo.ToInterface(p.state).(map[string]any)
	return out
}

func (p *Processor) Process(s *ecs.Scene, args ...any) {
	if err := p.run(s, args); err != nil {
		p.logger.Printf("script: %s: %v", p.name, err)
	}
}

func (p *Processor) run(s *ecs.Scene, args []any) error {
	tickArgs := make([]tengo.Object, 0, len(args))
	for _, a := range args {
		obj, err := tengo.FromInterface(a)
		if err != nil {
			obj = tengo.UndefinedValue
		}
		tickArgs = append(tickArgs, obj)
	}
	if err := p.compiled.Set("scene", p.sceneModule(s)); err != nil {
		return err
	}
	if err := p.compiled.Set("args", &tengo.ImmutableArray{Value: tickArgs}); err != nil {
		return err
	}
	if err := p.compiled.Set("state", p.state); err != nil {
		return err
	}
	return p.compiled.Run()
}

func (p *Processor) binding(obj tengo.Object) (Binding, error) {
	name, ok := tengo.ToString(obj)
	if !ok {
		return Binding{}, fmt.Errorf("component name must be a string, got %s", obj.TypeName())
	}
	b, ok := p.bindings[name]
	if !ok {
		return Binding{}, fmt.Errorf("component %q is not bound", name)
	}
	return b, nil
}

func entityArg(obj tengo.Object) (ecs.Entity, error) {
	id, ok := tengo.ToInt64(obj)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("invalid entity %s", obj.String())
	}
	return ecs.Entity(id), nil
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func (p *Processor) sceneModule(s *ecs.Scene) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["create"] = &tengo.UserFunction{Name: "create", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.CreateEntity())}, nil
	}}

	values["destroy"] = &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		s.DestroyEntity(e)
		return tengo.UndefinedValue, nil
	}}

	values["destroy_now"] = &tengo.UserFunction{Name: "destroy_now", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		return boolObject(s.DestroyEntityNow(e) == nil), nil
	}}

	values["is_alive"] = &tengo.UserFunction{Name: "is_alive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return tengo.FalseValue, nil
		}
		return boolObject(s.IsAlive(e)), nil
	}}

	values["has"] = &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := p.binding(args[1])
		if err != nil {
			return nil, err
		}
		return boolObject(s.HasComponent(e, b.Key)), nil
	}}

	values["get"] = &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := p.binding(args[1])
		if err != nil {
			return nil, err
		}
		v, ok := s.TryComponent(e, b.Key)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		m, err := b.Encode(v)
		if err != nil {
			return nil, err
		}
		return tengo.FromInterface(m)
	}}

	values["set"] = &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := p.binding(args[1])
		if err != nil {
			return nil, err
		}
		m, ok := tengo.ToInterface(args[2]).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("set %s: value must be a map, got %s", b.Name, args[2].TypeName())
		}
		if v, ok := s.TryComponent(e, b.Key); ok {
			return tengo.UndefinedValue, b.Decode(m, v)
		}
		v := b.New()
		if err := b.Decode(m, v); err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, s.AddComponent(e, b.Key, v)
	}}

	values["remove"] = &tengo.UserFunction{Name: "remove", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, err := entityArg(args[0])
		if err != nil {
			return nil, err
		}
		b, err := p.binding(args[1])
		if err != nil {
			return nil, err
		}
		_, err = s.RemoveComponent(e, b.Key)
		return boolObject(err == nil), nil
	}}

	values["entities_with"] = &tengo.UserFunction{Name: "entities_with", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		b, err := p.binding(args[0])
		if err != nil {
			return nil, err
		}
		ents := s.EntitiesWith(b.Key)
		out := make([]tengo.Object, 0, len(ents))
		for _, e := range ents {
			out = append(out, &tengo.Int{Value: int64(e)})
		}
		return &tengo.ImmutableArray{Value: out}, nil
	}}

	values["count"] = &tengo.UserFunction{Name: "count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.Len())}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
