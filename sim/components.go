// Package sim holds the components and processors of the swarm demo scene.
// Both cmd/swarmview and cmd/swarmbench build their scenes from it.
package sim

import "github.com/milk9111/swarm/ecs/component"

type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Velocity struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// Body gives an entity a circular physics shape.
type Body struct {
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

// Lifetime destroys its entity after Ticks ticks.
type Lifetime struct {
	Ticks int `yaml:"ticks"`
}

var (
	PositionComponent = component.NewComponent[*Position]()
	VelocityComponent = component.NewComponent[*Velocity]()
	BodyComponent     = component.NewComponent[*Body]()
	LifetimeComponent = component.NewComponent[*Lifetime]()
)
