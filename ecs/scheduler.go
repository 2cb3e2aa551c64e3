package ecs

import (
	"reflect"
	"slices"
	"sort"
)

// Processor is a system invoked once per tick with the scene that owns it
// and any arguments forwarded to Tick.
type Processor interface {
	Process(s *Scene, args ...any)
}

// Prioritized processors supply their own default priority. Higher runs first.
type Prioritized interface {
	Priority() int
}

// SceneBinder processors receive a reference to the scene they are
// registered with.
type SceneBinder interface {
	BindScene(s *Scene)
}

// Named processors are identified by concrete type plus Name, which lets
// several instances of one type (for example scripted processors) coexist
// in a scene. Name is also used as the timing table key.
type Named interface {
	Name() string
}

type prioritySetter interface {
	SetPriority(priority int)
}

// ProcessorPtr constrains a pointer type *P that implements Processor.
type ProcessorPtr[P any] interface {
	*P
	Processor
}

type processorKey struct {
	typ  reflect.Type
	name string
}

type registration struct {
	key      processorKey
	proc     Processor
	priority int
	label    string
	// live registrations re-read Priority() before each sort.
	live bool
}

// Scheduler keeps registered processors in registration order and sorts
// them by descending priority, stable on ties, before a tick runs.
type Scheduler struct {
	entries []registration
	sorted  bool
}

func keyOf(p Processor) processorKey {
	key := processorKey{typ: reflect.TypeOf(p)}
	if n, ok := p.(Named); ok {
		key.name = n.Name()
	}
	return key
}

// processorName is the timing-table label of p: its Name when Named,
// otherwise the bare type name without package or pointer.
func processorName(p Processor) string {
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	t := reflect.TypeOf(p)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (s *Scheduler) index(key processorKey) int {
	return slices.IndexFunc(s.entries, func(r registration) bool { return r.key == key })
}

// add registers p unless a processor with the same identity is already
// present. It reports whether p was added.
func (s *Scheduler) add(p Processor, priority int) bool {
	key := keyOf(p)
	if s.index(key) >= 0 {
		return false
	}
	_, prioritized := p.(Prioritized)
	live := prioritized && priority == 0
	if priority != 0 {
		if ps, ok := p.(prioritySetter); ok {
			ps.SetPriority(priority)
			live = prioritized
		}
	} else if pr, ok := p.(Prioritized); ok {
		priority = pr.Priority()
	}
	s.entries = append(s.entries, registration{
		key:      key,
		proc:     p,
		priority: priority,
		label:    processorName(p),
		live:     live,
	})
	s.sorted = false
	return true
}

func (s *Scheduler) removeWhere(match func(registration) bool) int {
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, match)
	return before - len(s.entries)
}

func (s *Scheduler) fetch(t reflect.Type) (Processor, bool) {
	for _, r := range s.entries {
		if r.key.typ == t {
			return r.proc, true
		}
	}
	return nil, false
}

func (s *Scheduler) fetchNamed(name string) (Processor, bool) {
	if name == "" {
		return nil, false
	}
	for _, r := range s.entries {
		if r.key.name == name {
			return r.proc, true
		}
	}
	return nil, false
}

// order returns a snapshot of the registrations in execution order.
// Processors registered or unregistered during a tick take effect on the
// next one, and so do priority changes made through SetPriority.
func (s *Scheduler) order() []registration {
	s.refreshPriorities()
	if !s.sorted {
		sort.SliceStable(s.entries, func(i, j int) bool {
			return s.entries[i].priority > s.entries[j].priority
		})
		s.sorted = true
	}
	return slices.Clone(s.entries)
}

func (s *Scheduler) refreshPriorities() {
	for i := range s.entries {
		r := &s.entries[i]
		if !r.live {
			continue
		}
		if p := r.proc.(Prioritized).Priority(); p != r.priority {
			r.priority = p
			s.sorted = false
		}
	}
}

func (s *Scheduler) processors() []Processor {
	ordered := s.order()
	out := make([]Processor, 0, len(ordered))
	for _, r := range ordered {
		out = append(out, r.proc)
	}
	return out
}
