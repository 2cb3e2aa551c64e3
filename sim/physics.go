package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/swarm/ecs"
)

const defaultStep = 1.0 / 60.0

type PhysicsOptions struct {
	Gravity    float64 `yaml:"gravity"`
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
}

// Physics mirrors every entity holding Position and Body into a Chipmunk
// space, steps it, and writes positions and velocities back.
type Physics struct {
	ecs.ProcessorBase

	space  *cp.Space
	bodies map[ecs.Entity]*physicsBody
}

type physicsBody struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewPhysics(opts PhysicsOptions) *Physics {
	space := cp.NewSpace()
	space.Iterations = 10
	if opts.Iterations > 0 {
		space.Iterations = uint(opts.Iterations)
	}
	space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})
	if opts.Damping > 0 {
		space.SetDamping(opts.Damping)
	}
	return &Physics{
		space:  space,
		bodies: make(map[ecs.Entity]*physicsBody),
	}
}

// Process steps the space by args[0] seconds when given, or one 60Hz frame.
func (p *Physics) Process(s *ecs.Scene, args ...any) {
	dt := defaultStep
	if len(args) > 0 {
		if v, ok := args[0].(float64); ok && v > 0 {
			dt = v
		}
	}

	live := make(map[ecs.Entity]struct{}, len(p.bodies))
	ecs.ForEach2(s, PositionComponent, BodyComponent, func(e ecs.Entity, pos *Position, b *Body) {
		live[e] = struct{}{}
		pb := p.ensureBody(e, pos, b)
		pb.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
		if v, ok := ecs.TryGet(s, e, VelocityComponent); ok {
			pb.body.SetVelocity(v.DX, v.DY)
		}
	})

	for e, pb := range p.bodies {
		if _, ok := live[e]; !ok {
			p.removeBody(e, pb)
		}
	}

	p.space.Step(dt)

	for e, pb := range p.bodies {
		pos, ok := ecs.TryGet(s, e, PositionComponent)
		if !ok {
			continue
		}
		at := pb.body.Position()
		pos.X, pos.Y = at.X, at.Y
		if v, ok := ecs.TryGet(s, e, VelocityComponent); ok {
			vel := pb.body.Velocity()
			v.DX, v.DY = vel.X, vel.Y
		}
	}
}

func (p *Physics) ensureBody(e ecs.Entity, pos *Position, b *Body) *physicsBody {
	if pb, ok := p.bodies[e]; ok {
		return pb
	}
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := b.Radius
	if radius <= 0 {
		radius = 1
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(0.6)
	shape.SetFriction(0.2)
	p.space.AddBody(body)
	p.space.AddShape(shape)

	pb := &physicsBody{body: body, shape: shape}
	p.bodies[e] = pb
	return pb
}

func (p *Physics) removeBody(e ecs.Entity, pb *physicsBody) {
	p.space.RemoveShape(pb.shape)
	p.space.RemoveBody(pb.body)
	delete(p.bodies, e)
}
