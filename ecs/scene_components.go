package ecs

import "github.com/milk9111/swarm/ecs/component"

// AddComponent attaches v to e under key. An existing instance of key on e
// is replaced and dropped from the key's instance set.
func (s *Scene) AddComponent(e Entity, key component.ComponentID, v any) error {
	return s.store.add(e, key, v)
}

// RemoveComponent detaches and returns the instance of key on e.
func (s *Scene) RemoveComponent(e Entity, key component.ComponentID) (any, error) {
	return s.store.remove(e, key)
}

// Component returns the instance of key on e and fails when it is absent.
// Lookups are memoized until the next tick, so a component removed or
// replaced earlier in the current tick may still be returned.
func (s *Scene) Component(e Entity, key component.ComponentID) (any, error) {
	return s.store.cached(e, key)
}

// TryComponent returns the instance of key on e, if any.
func (s *Scene) TryComponent(e Entity, key component.ComponentID) (any, bool) {
	return s.store.lookup(e, key)
}

// TryComponents returns the instances for keys, in order, only when e has
// every one of them.
func (s *Scene) TryComponents(e Entity, keys ...component.ComponentID) ([]any, bool) {
	out := make([]any, 0, len(keys))
	for _, key := range keys {
		v, ok := s.store.lookup(e, key)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// HasComponent reports whether e holds key. Unknown entities hold nothing.
func (s *Scene) HasComponent(e Entity, key component.ComponentID) bool {
	_, ok := s.store.lookup(e, key)
	return ok
}

// HasComponents reports whether e holds every key.
func (s *Scene) HasComponents(e Entity, keys ...component.ComponentID) bool {
	for _, key := range keys {
		if !s.HasComponent(e, key) {
			return false
		}
	}
	return true
}

// EntitiesWith returns the entities holding key. It never fails; a key that
// was never indexed yields an empty result.
func (s *Scene) EntitiesWith(key component.ComponentID) []Entity {
	return s.store.entitiesWith(key)
}

// InstancesOf returns every instance stored under key. It fails with
// ErrComponentNotFound when key has never been indexed in this scene.
func (s *Scene) InstancesOf(key component.ComponentID) ([]any, error) {
	return s.store.instancesOf(key)
}

// ComponentsOf returns every component of e in no particular order. It is
// meant for inspection and bulk transfer between scenes.
func (s *Scene) ComponentsOf(e Entity) ([]any, error) {
	return s.store.componentsOf(e)
}

// Store exposes the SparseSet backing key, or nil. Iterating it while
// adding or removing key is unsafe.
func (s *Scene) Store(key component.ComponentID) *SparseSet {
	return s.store.types[key]
}
