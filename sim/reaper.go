package sim

import "github.com/milk9111/swarm/ecs"

// Reaper counts down Lifetime components and destroys expired entities at
// the start of the next tick.
type Reaper struct {
	ecs.ProcessorBase
}

func (r *Reaper) Process(s *ecs.Scene, args ...any) {
	ecs.ForEach(s, LifetimeComponent, func(e ecs.Entity, l *Lifetime) {
		if l.Ticks > 0 {
			l.Ticks--
			if l.Ticks > 0 {
				return
			}
		}
		s.DestroyEntity(e)
	})
}
