package ecs

import (
	"slices"

	"github.com/milk9111/swarm/ecs/component"
)

// IntersectEntities returns entities present in every set, in the order of
// the smallest set. A nil set yields nil.
func IntersectEntities(sets ...*SparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, set := range sets {
		if set == nil {
			return nil
		}
		if set.Len() < smallest.Len() {
			smallest = set
		}
	}
	out := make([]Entity, 0, smallest.Len())
	for _, e := range smallest.denseEntities {
		if slices.IndexFunc(sets, func(set *SparseSet) bool { return !set.Has(e) }) < 0 {
			out = append(out, e)
		}
	}
	return out
}

// ForEach calls fn for every entity holding handle's component. The entity
// list is captured before the first call, so fn may add, remove or destroy.
func ForEach[T any](s *Scene, handle component.ComponentHandle[T], fn func(Entity, T)) {
	for _, e := range s.EntitiesWith(handle.ID()) {
		if v, ok := TryGet(s, e, handle); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](s *Scene, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, A, B)) {
	for _, e := range IntersectEntities(s.Store(ha.ID()), s.Store(hb.ID())) {
		if a, b, ok := TryGet2(s, e, ha, hb); ok {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](s *Scene, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, A, B, C)) {
	for _, e := range IntersectEntities(s.Store(ha.ID()), s.Store(hb.ID()), s.Store(hc.ID())) {
		if a, b, c, ok := TryGet3(s, e, ha, hb, hc); ok {
			fn(e, a, b, c)
		}
	}
}
