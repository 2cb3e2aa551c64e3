package ecs

// SparseSet holds one component instance per entity. The dense slices double
// as the type's entity set and instance set, so the two can never disagree.
// Only the owning scene mutates a SparseSet; callers of Scene.Store get the
// read side.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        map[Entity]int
}

func newSparseSet() *SparseSet {
	return &SparseSet{sparse: make(map[Entity]int)}
}

// Has returns true if the entity exists in the set.
func (s *SparseSet) Has(e Entity) bool {
	if s == nil {
		return false
	}
	_, ok := s.sparse[e]
	return ok
}

// Get returns the instance stored for e.
func (s *SparseSet) Get(e Entity) (any, bool) {
	if s == nil {
		return nil, false
	}
	idx, ok := s.sparse[e]
	if !ok {
		return nil, false
	}
	return s.denseValues[idx], true
}

// set inserts or replaces the instance for e. When an instance is replaced
// the previous one is returned and is no longer part of the set.
func (s *SparseSet) set(e Entity, v any) (prev any, replaced bool) {
	if idx, ok := s.sparse[e]; ok {
		prev = s.denseValues[idx]
		s.denseValues[idx] = v
		return prev, true
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[e] = len(s.denseEntities) - 1
	return nil, false
}

// remove deletes the instance for e if present, swapping the last element
// into its slot.
func (s *SparseSet) remove(e Entity) (any, bool) {
	if s == nil {
		return nil, false
	}
	idx, ok := s.sparse[e]
	if !ok {
		return nil, false
	}
	removed := s.denseValues[idx]
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity] = idx

	s.denseValues[last] = nil
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	delete(s.sparse, e)
	return removed, true
}

// Len returns the number of entities in the set.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Values returns the dense instance list, parallel to Entities.
func (s *SparseSet) Values() []any {
	if s == nil {
		return nil
	}
	return s.denseValues
}
