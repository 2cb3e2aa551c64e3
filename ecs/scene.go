// Package ecs is an entity-component-system runtime. A Scene owns entities,
// their components and an ordered set of processors that run once per Tick.
//
// A Scene is not safe for concurrent use. Processors must not keep entity or
// component references across ticks: deferred destruction and the lookup
// cache are only settled at the start of the next tick, after which a
// retained reference may point at detached data.
package ecs

import (
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/milk9111/swarm/ecs/component"
)

// Version is the semantic version of the runtime.
const Version = "1.0.0"

// Scene is one isolated universe of entities, components and processors.
type Scene struct {
	counter    entityCounter
	store      componentStore
	dead       map[Entity]struct{}
	processors Scheduler
	timings    timingTable
	logger     *log.Logger
}

// NewScene creates an empty scene.
func NewScene(opts ...Option) *Scene {
	return newScene(buildOptions(opts))
}

func newScene(o options) *Scene {
	return &Scene{
		store:   newComponentStore(),
		dead:    make(map[Entity]struct{}),
		timings: newTimingTable(),
		logger:  o.logger,
	}
}

// CreateEntity allocates a new entity and attaches the given components.
// Entries with an invalid key or a nil value are skipped and logged.
func (s *Scene) CreateEntity(components ...component.Entry) Entity {
	e := s.counter.next()
	s.store.register(e)
	for _, c := range components {
		if err := s.store.add(e, c.Key, c.Value); err != nil {
			s.logger.Printf("ecs: create entity %d: %v", e, err)
		}
	}
	return e
}

// IsAlive reports whether e exists and is not marked for destruction.
func (s *Scene) IsAlive(e Entity) bool {
	if _, ok := s.store.entities[e]; !ok {
		return false
	}
	_, dead := s.dead[e]
	return !dead
}

// DestroyEntity marks e for destruction at the start of the next tick. Its
// components stay queryable until then. Marking twice is harmless.
func (s *Scene) DestroyEntity(e Entity) {
	s.dead[e] = struct{}{}
}

// DestroyEntityNow detaches every component of e and forgets it
// immediately. Doing this while iterating over a live SparseSet that holds
// e is unsafe; the slices returned by EntitiesWith and InstancesOf are
// copies and are not affected.
func (s *Scene) DestroyEntityNow(e Entity) error {
	if !s.store.detach(e) {
		return fmt.Errorf("destroy entity %d: %w", e, ErrEntityNotFound)
	}
	delete(s.dead, e)
	return nil
}

// FlushDead destroys every entity marked by DestroyEntity. Tick calls it
// once before processors run; hosts that drive processors themselves call
// it directly.
func (s *Scene) FlushDead() {
	for e := range s.dead {
		s.store.detach(e)
	}
	clear(s.dead)
}

// Clear removes all entities and components. Registered processors and the
// entity counter survive, so ids issued after Clear are still unique.
func (s *Scene) Clear() {
	s.store.reset()
	clear(s.dead)
}

// Entities returns every entity known to the scene, ascending, including
// those marked dead but not yet flushed.
func (s *Scene) Entities() []Entity {
	return s.store.ids()
}

// Len returns the number of entities known to the scene.
func (s *Scene) Len() int {
	return len(s.store.entities)
}

// Register adds p to the scene. If a processor with the same identity
// (concrete type, plus Name for Named processors) is registered already the
// call is ignored. A nonzero priority overrides the processor's own.
func (s *Scene) Register(p Processor, priority int) {
	if p == nil || isNilPointer(p) {
		return
	}
	if s.processors.index(keyOf(p)) >= 0 {
		return
	}
	if b, ok := p.(SceneBinder); ok {
		b.BindScene(s)
	}
	s.processors.add(p, priority)
}

// RegisterType registers a zero-valued *P and returns the processor of that
// type now registered, which is the earlier one if *P was already present.
func RegisterType[P any, PT ProcessorPtr[P]](s *Scene, priority int) PT {
	s.Register(PT(new(P)), priority)
	p, _ := Fetch[PT](s)
	return p
}

// Unregister removes every processor of concrete type P. A missing
// processor is logged and reported as false.
func Unregister[P Processor](s *Scene) bool {
	return s.UnregisterType(reflect.TypeFor[P]())
}

// UnregisterType removes every processor whose concrete type is t.
func (s *Scene) UnregisterType(t reflect.Type) bool {
	if s.processors.removeWhere(func(r registration) bool { return r.key.typ == t }) == 0 {
		s.logger.Printf("ecs: processor %v not registered", t)
		return false
	}
	return true
}

// UnregisterNamed removes the Named processor called name.
func (s *Scene) UnregisterNamed(name string) bool {
	if name == "" || s.processors.removeWhere(func(r registration) bool { return r.key.name == name }) == 0 {
		s.logger.Printf("ecs: processor %q not registered", name)
		return false
	}
	return true
}

// Fetch returns the first registered processor whose concrete type is P.
func Fetch[P Processor](s *Scene) (P, bool) {
	var zero P
	p, ok := s.processors.fetch(reflect.TypeFor[P]())
	if !ok {
		return zero, false
	}
	return p.(P), true
}

// FetchNamed returns the Named processor called name.
func (s *Scene) FetchNamed(name string) (Processor, bool) {
	return s.processors.fetchNamed(name)
}

// Processors returns the registered processors in execution order.
func (s *Scene) Processors() []Processor {
	return s.processors.processors()
}

// Tick runs one simulation step: the lookup cache is cleared, dead entities
// are flushed, then each processor runs in descending priority, ties in
// registration order. args are forwarded to every processor.
func (s *Scene) Tick(args ...any) {
	s.store.clearCache()
	s.FlushDead()
	for _, r := range s.processors.order() {
		r.proc.Process(s, args...)
	}
}

// TimedTick is Tick that also records each processor's wall-clock duration.
// See ProcessTimes and ProcessHistory.
func (s *Scene) TimedTick(args ...any) {
	s.store.clearCache()
	s.FlushDead()
	for _, r := range s.processors.order() {
		start := time.Now()
		r.proc.Process(s, args...)
		s.timings.record(r.label, time.Since(start))
	}
}

func isNilPointer(p Processor) bool {
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
