package sim

import "github.com/milk9111/swarm/ecs"

type BoundsOptions struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Bounds keeps positions inside the play area, reflecting velocity off the
// edges it crosses.
type Bounds struct {
	ecs.ProcessorBase
	BoundsOptions
}

func NewBounds(opts BoundsOptions) *Bounds {
	return &Bounds{BoundsOptions: opts}
}

func (b *Bounds) Process(s *ecs.Scene, args ...any) {
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	ecs.ForEach(s, PositionComponent, func(e ecs.Entity, pos *Position) {
		vel, _ := ecs.TryGet(s, e, VelocityComponent)
		pos.X = reflectAxis(pos.X, b.Width, vel, true)
		pos.Y = reflectAxis(pos.Y, b.Height, vel, false)
	})
}

func reflectAxis(x, limit float64, vel *Velocity, horizontal bool) float64 {
	var out float64
	switch {
	case x < 0:
		out = -x
	case x > limit:
		out = 2*limit - x
	default:
		return x
	}
	if vel != nil {
		if horizontal {
			vel.DX = -vel.DX
		} else {
			vel.DY = -vel.DY
		}
	}
	return min(max(out, 0), limit)
}
