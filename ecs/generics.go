package ecs

import (
	"fmt"

	"github.com/milk9111/swarm/ecs/component"
)

func Add[T any](s *Scene, e Entity, handle component.ComponentHandle[T], value T) error {
	return s.AddComponent(e, handle.ID(), value)
}

func Remove[T any](s *Scene, e Entity, handle component.ComponentHandle[T]) (T, error) {
	var zero T
	v, err := s.RemoveComponent(e, handle.ID())
	if err != nil {
		return zero, err
	}
	return cast[T](v, handle.ID())
}

func Has[T any](s *Scene, e Entity, handle component.ComponentHandle[T]) bool {
	return s.HasComponent(e, handle.ID())
}

// Get is the strict typed lookup. See Scene.Component for caching rules.
func Get[T any](s *Scene, e Entity, handle component.ComponentHandle[T]) (T, error) {
	var zero T
	v, err := s.Component(e, handle.ID())
	if err != nil {
		return zero, err
	}
	return cast[T](v, handle.ID())
}

func TryGet[T any](s *Scene, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	v, ok := s.TryComponent(e, handle.ID())
	if !ok {
		return zero, false
	}
	c, ok := v.(T)
	if !ok {
		return zero, false
	}
	return c, true
}

// TryGet2 returns both components only when e holds both.
func TryGet2[A, B any](s *Scene, e Entity, ha component.ComponentHandle[A], hb component.ComponentHandle[B]) (A, B, bool) {
	var (
		za A
		zb B
	)
	a, ok := TryGet(s, e, ha)
	if !ok {
		return za, zb, false
	}
	b, ok := TryGet(s, e, hb)
	if !ok {
		return za, zb, false
	}
	return a, b, true
}

// TryGet3 returns all three components only when e holds all of them.
func TryGet3[A, B, C any](s *Scene, e Entity, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C]) (A, B, C, bool) {
	var (
		za A
		zb B
		zc C
	)
	a, b, ok := TryGet2(s, e, ha, hb)
	if !ok {
		return za, zb, zc, false
	}
	c, ok := TryGet(s, e, hc)
	if !ok {
		return za, zb, zc, false
	}
	return a, b, c, true
}

// Entities returns the entities holding handle's component.
func Entities[T any](s *Scene, handle component.ComponentHandle[T]) []Entity {
	return s.EntitiesWith(handle.ID())
}

// Instances returns every instance stored under handle. Values that are
// not a T, which can only happen when the key was also used untyped, are
// skipped.
func Instances[T any](s *Scene, handle component.ComponentHandle[T]) ([]T, error) {
	values, err := s.InstancesOf(handle.ID())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		if c, ok := v.(T); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func cast[T any](v any, key component.ComponentID) (T, error) {
	c, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("component %s holds %T: %w", key, v, ErrInvalidComponentKind)
	}
	return c, nil
}
