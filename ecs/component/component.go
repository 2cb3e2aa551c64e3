package component

import (
	"strconv"
	"sync/atomic"
)

// ComponentID is the index key a component instance is stored under.
type ComponentID uint32

func (id ComponentID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Valid reports whether the id was issued by NewComponentKind.
func (id ComponentID) Valid() bool {
	return id != 0
}

var nextComponentID atomic.Uint32

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

// ComponentHandle is the typed key used to add and query components of type T.
//
// T is usually a pointer type so queries hand back a reference into the
// store. When T is an interface, the handle acts as an alias: any concrete
// value implementing T is indexed under the handle's key, so a query by the
// interface finds every implementation added through it.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.kind.id
}

// Entry is an untyped (key, instance) pair used to attach initial
// components when an entity is created.
type Entry struct {
	Key   ComponentID
	Value any
}

// With pairs value with the key of handle h.
func With[T any](h ComponentHandle[T], value T) Entry {
	return Entry{Key: h.ID(), Value: value}
}

// WithKey pairs value with an explicit key, bypassing the typed handle.
func WithKey(key ComponentID, value any) Entry {
	return Entry{Key: key, Value: value}
}
