package ecs

// ProcessorBase carries the priority and scene back-reference shared by
// most processors. Embed it in a processor struct:
//
//	type Movement struct {
//		ecs.ProcessorBase
//	}
//
//	func (m *Movement) Process(s *ecs.Scene, args ...any) { ... }
type ProcessorBase struct {
	priority int
	scene    *Scene
}

func (b *ProcessorBase) Priority() int {
	return b.priority
}

func (b *ProcessorBase) SetPriority(priority int) {
	b.priority = priority
}

func (b *ProcessorBase) BindScene(s *Scene) {
	b.scene = s
}

// Scene returns the scene the processor was registered with, or nil.
func (b *ProcessorBase) Scene() *Scene {
	return b.scene
}

// ProcessorFunc adapts a plain function to the Processor interface. Every
// ProcessorFunc shares one concrete type, so only one unnamed ProcessorFunc
// can be registered per scene; use NamedProcessor for more.
type ProcessorFunc func(s *Scene, args ...any)

func (f ProcessorFunc) Process(s *Scene, args ...any) {
	f(s, args...)
}

type namedProcessor struct {
	ProcessorBase
	name string
	fn   ProcessorFunc
}

// NamedProcessor wraps fn in a processor identified by name.
func NamedProcessor(name string, priority int, fn ProcessorFunc) Processor {
	return &namedProcessor{ProcessorBase: ProcessorBase{priority: priority}, name: name, fn: fn}
}

func (p *namedProcessor) Name() string {
	return p.name
}

func (p *namedProcessor) Process(s *Scene, args ...any) {
	p.fn(s, args...)
}
