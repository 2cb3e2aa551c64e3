package ecs

import "strconv"

// Entity is an opaque identity handle. It carries no data of its own.
type Entity uint64

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Valid reports whether e could have been issued by a scene. Zero is never issued.
func (e Entity) Valid() bool {
	return e > 0
}

// entityCounter issues strictly increasing entity ids. Ids are never
// recycled for the lifetime of the counter.
type entityCounter struct {
	last Entity
}

func (c *entityCounter) next() Entity {
	c.last++
	return c.last
}
