// swarmbench ticks a synthetic swarm scene and reports per-processor times.
//
// Profiling:
//
//	go build ./cmd/swarmbench
//	./swarmbench -profile cpu
//	go tool pprof -http=":8000" ./swarmbench cpu.pprof
package main

import (
	"cmp"
	"flag"
	"log"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/milk9111/swarm/ecs"
	"github.com/milk9111/swarm/ecs/component"
	"github.com/milk9111/swarm/manifest"
	"github.com/milk9111/swarm/sim"
	"github.com/pkg/profile"
)

func main() {
	entities := flag.Int("entities", 2000, "entities to spawn")
	ticks := flag.Int("ticks", 600, "ticks to run")
	mode := flag.String("profile", "", "profile mode: cpu, mem or empty for none")
	manifestPath := flag.String("manifest", "", "load scenes from a manifest instead of the synthetic scene")
	flag.Parse()

	var s *ecs.Scene
	if *manifestPath != "" {
		m, err := manifest.LoadFile(*manifestPath)
		if err != nil {
			log.Fatal(err)
		}
		r := ecs.NewRegistry()
		if err := sim.NewCatalog(log.Default()).Apply(m, r); err != nil {
			log.Fatal(err)
		}
		_, s = r.Current()
	} else {
		s = syntheticScene(*entities)
	}

	switch *mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Fatalf("swarmbench: unknown profile mode %q", *mode)
	}

	run(s, *ticks)
}

func syntheticScene(n int) *ecs.Scene {
	s := ecs.NewScene()
	s.Register(sim.NewPhysics(sim.PhysicsOptions{Damping: 0.99}), 100)
	s.Register(sim.NewBounds(sim.BoundsOptions{Width: 1280, Height: 720}), 50)
	s.Register(&sim.Reaper{}, 10)
	s.Register(ecs.NamedProcessor("respawn", 0, func(s *ecs.Scene, args ...any) {
		for range n - s.Len() {
			spawn(s)
		}
	}), 0)

	for range n {
		spawn(s)
	}
	return s
}

func spawn(s *ecs.Scene) ecs.Entity {
	return s.CreateEntity(
		component.With(sim.PositionComponent, &sim.Position{X: rand.Float64() * 1280, Y: rand.Float64() * 720}),
		component.With(sim.VelocityComponent, &sim.Velocity{DX: rand.Float64()*200 - 100, DY: rand.Float64()*200 - 100}),
		component.With(sim.BodyComponent, &sim.Body{Radius: 2, Mass: 1}),
		component.With(sim.LifetimeComponent, &sim.Lifetime{Ticks: 60 + rand.IntN(240)}),
	)
}

func run(s *ecs.Scene, ticks int) {
	totals := make(map[string]time.Duration)
	start := time.Now()
	for range ticks {
		s.TimedTick(1.0 / 60.0)
		for label, d := range s.ProcessTimes() {
			totals[label] += d
		}
	}
	elapsed := time.Since(start)

	log.Printf("swarmbench: %d ticks, %d entities, %s total, %s/tick", ticks, s.Len(), elapsed, elapsed/time.Duration(max(ticks, 1)))
	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	slices.SortFunc(labels, func(a, b string) int { return cmp.Compare(totals[b], totals[a]) })
	for _, label := range labels {
		log.Printf("  %-10s %12s  %10s/tick", label, totals[label], totals[label]/time.Duration(max(ticks, 1)))
	}
}
