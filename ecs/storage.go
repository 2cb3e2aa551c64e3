package ecs

import (
	"fmt"
	"maps"
	"slices"

	"github.com/milk9111/swarm/ecs/component"
)

type cacheKey struct {
	entity Entity
	key    component.ComponentID
}

// componentStore owns every component instance of a scene. It keeps two
// indices in lockstep: entity -> {key -> instance} and key -> SparseSet
// (entity set + instance set). A SparseSet is dropped as soon as it empties.
type componentStore struct {
	entities map[Entity]map[component.ComponentID]any
	types    map[component.ComponentID]*SparseSet
	seen     map[component.ComponentID]struct{}
	cache    map[cacheKey]any
}

func newComponentStore() componentStore {
	return componentStore{
		entities: make(map[Entity]map[component.ComponentID]any),
		types:    make(map[component.ComponentID]*SparseSet),
		seen:     make(map[component.ComponentID]struct{}),
		cache:    make(map[cacheKey]any),
	}
}

func (s *componentStore) register(e Entity) {
	if _, ok := s.entities[e]; !ok {
		s.entities[e] = make(map[component.ComponentID]any)
	}
}

func (s *componentStore) add(e Entity, key component.ComponentID, v any) error {
	if !key.Valid() {
		return ErrInvalidComponentKind
	}
	if v == nil {
		return fmt.Errorf("entity %d key %s: %w", e, key, ErrNilComponent)
	}
	slots, ok := s.entities[e]
	if !ok {
		return fmt.Errorf("add component %s: entity %d: %w", key, e, ErrEntityNotFound)
	}
	set, ok := s.types[key]
	if !ok {
		set = newSparseSet()
		s.types[key] = set
		s.seen[key] = struct{}{}
	}
	set.set(e, v)
	slots[key] = v
	return nil
}

func (s *componentStore) remove(e Entity, key component.ComponentID) (any, error) {
	slots, ok := s.entities[e]
	if !ok {
		return nil, fmt.Errorf("remove component %s: entity %d: %w", key, e, ErrEntityNotFound)
	}
	v, ok := slots[key]
	if !ok {
		return nil, fmt.Errorf("remove component %s: entity %d: %w", key, e, ErrComponentNotFound)
	}
	delete(slots, key)
	s.unindex(e, key)
	return v, nil
}

func (s *componentStore) unindex(e Entity, key component.ComponentID) {
	set, ok := s.types[key]
	if !ok {
		return
	}
	set.remove(e)
	if set.Len() == 0 {
		delete(s.types, key)
	}
}

// detach removes every component of e and forgets the entity.
func (s *componentStore) detach(e Entity) bool {
	slots, ok := s.entities[e]
	if !ok {
		return false
	}
	for key := range slots {
		s.unindex(e, key)
	}
	delete(s.entities, e)
	return true
}

func (s *componentStore) lookup(e Entity, key component.ComponentID) (any, bool) {
	slots, ok := s.entities[e]
	if !ok {
		return nil, false
	}
	v, ok := slots[key]
	return v, ok
}

// cached serves strict lookups through the per-tick memo. The memo is only
// cleared by clearCache, so an instance removed or replaced earlier in the
// same tick is still returned here.
func (s *componentStore) cached(e Entity, key component.ComponentID) (any, error) {
	ck := cacheKey{entity: e, key: key}
	if v, ok := s.cache[ck]; ok {
		return v, nil
	}
	slots, ok := s.entities[e]
	if !ok {
		return nil, fmt.Errorf("component %s: entity %d: %w", key, e, ErrEntityNotFound)
	}
	v, ok := slots[key]
	if !ok {
		return nil, fmt.Errorf("component %s: entity %d: %w", key, e, ErrComponentNotFound)
	}
	s.cache[ck] = v
	return v, nil
}

func (s *componentStore) clearCache() {
	clear(s.cache)
}

func (s *componentStore) entitiesWith(key component.ComponentID) []Entity {
	return slices.Clone(s.types[key].Entities())
}

func (s *componentStore) instancesOf(key component.ComponentID) ([]any, error) {
	if _, ok := s.seen[key]; !ok {
		return nil, fmt.Errorf("instances of %s: %w", key, ErrComponentNotFound)
	}
	values := s.types[key].Values()
	out := make([]any, len(values))
	copy(out, values)
	return out, nil
}

func (s *componentStore) componentsOf(e Entity) ([]any, error) {
	slots, ok := s.entities[e]
	if !ok {
		return nil, fmt.Errorf("components of entity %d: %w", e, ErrEntityNotFound)
	}
	return slices.Collect(maps.Values(slots)), nil
}

func (s *componentStore) ids() []Entity {
	return slices.Sorted(maps.Keys(s.entities))
}

func (s *componentStore) reset() {
	clear(s.entities)
	clear(s.types)
	clear(s.cache)
}
