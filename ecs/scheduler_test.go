package ecs

import (
	"strings"
	"testing"

	"github.com/milk9111/swarm/ecs/component"
)

type recorder struct {
	calls []string
}

type procA struct {
	ProcessorBase
	rec *recorder
}

func (p *procA) Process(s *Scene, args ...any) { p.rec.calls = append(p.rec.calls, "A") }

type procB struct {
	ProcessorBase
	rec *recorder
}

func (p *procB) Process(s *Scene, args ...any) { p.rec.calls = append(p.rec.calls, "B") }

type procC struct {
	ProcessorBase
	rec *recorder
}

func (p *procC) Process(s *Scene, args ...any) { p.rec.calls = append(p.rec.calls, "C") }

// bare has no ProcessorBase and no priority of its own.
type bare struct {
	got []any
}

func (b *bare) Process(s *Scene, args ...any) { b.got = append(b.got, args...) }

type move struct {
	ProcessorBase
}

func (m *move) Process(s *Scene, args ...any) {}

func TestPriorityOrdering(t *testing.T) {
	s, _ := newTestScene(t)
	rec := &recorder{}
	s.Register(&procA{rec: rec}, 5)
	s.Register(&procB{rec: rec}, 10)
	s.Register(&procC{rec: rec}, 5)

	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "B,A,C" {
		t.Fatalf("expected B,A,C, got %s", got)
	}

	rec.calls = nil
	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "B,A,C" {
		t.Fatalf("order must be stable across ticks, got %s", got)
	}
}

// fixed reports a priority but cannot be told a new one.
type fixed struct {
	rec *recorder
}

func (f *fixed) Priority() int { return 1 }

func (f *fixed) Process(s *Scene, args ...any) { f.rec.calls = append(f.rec.calls, "F") }

func TestPriorityChangedAfterRegister(t *testing.T) {
	s, _ := newTestScene(t)
	rec := &recorder{}
	a := &procA{rec: rec}
	b := &procB{rec: rec}
	s.Register(a, 0)
	s.Register(b, 0)

	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "A,B" {
		t.Fatalf("expected A,B, got %s", got)
	}

	rec.calls = nil
	b.SetPriority(10)
	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "B,A" {
		t.Fatalf("expected SetPriority to reorder to B,A, got %s", got)
	}

	rec.calls = nil
	s.Register(&fixed{rec: rec}, 20)
	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "F,B,A" {
		t.Fatalf("registration priority must stick without SetPriority, got %s", got)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, s *Scene)
	}{
		{
			name: "first_registration_wins",
			run: func(t *testing.T, s *Scene) {
				rec := &recorder{}
				first := &procA{rec: rec}
				s.Register(first, 3)
				s.Register(&procA{rec: rec}, 9)
				if len(s.Processors()) != 1 {
					t.Fatalf("expected a single processor, got %d", len(s.Processors()))
				}
				got, ok := Fetch[*procA](s)
				if !ok || got != first {
					t.Fatalf("expected the first instance to stay registered")
				}
				if got.Priority() != 3 {
					t.Fatalf("expected priority 3, got %d", got.Priority())
				}
			},
		},
		{
			name: "binds_scene",
			run: func(t *testing.T, s *Scene) {
				p := &procA{rec: &recorder{}}
				s.Register(p, 0)
				if p.Scene() != s {
					t.Fatalf("expected scene back-reference")
				}
			},
		},
		{
			name: "zero_priority_keeps_default",
			run: func(t *testing.T, s *Scene) {
				rec := &recorder{}
				a := &procA{rec: rec}
				a.SetPriority(7)
				s.Register(a, 0)
				s.Register(&procB{rec: rec}, 1)
				s.Tick()
				if got := strings.Join(rec.calls, ","); got != "A,B" {
					t.Fatalf("expected A,B, got %s", got)
				}
			},
		},
		{
			name: "register_type",
			run: func(t *testing.T, s *Scene) {
				m := RegisterType[move](s, 4)
				if m == nil || m.Priority() != 4 || m.Scene() != s {
					t.Fatalf("unexpected registered processor %+v", m)
				}
				again := RegisterType[move](s, 8)
				if again != m || again.Priority() != 4 {
					t.Fatalf("second RegisterType must return the first instance")
				}
			},
		},
		{
			name: "nil_is_ignored",
			run: func(t *testing.T, s *Scene) {
				var p *procA
				s.Register(p, 1)
				s.Register(nil, 1)
				if len(s.Processors()) != 0 {
					t.Fatalf("nil processors must not register")
				}
			},
		},
		{
			name: "fetch_missing",
			run: func(t *testing.T, s *Scene) {
				if _, ok := Fetch[*procB](s); ok {
					t.Fatalf("expected no processor")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestScene(t)
			tc.run(t, s)
		})
	}
}

func TestUnregister(t *testing.T) {
	s, logs := newTestScene(t)
	rec := &recorder{}
	s.Register(&procA{rec: rec}, 0)
	s.Register(&procB{rec: rec}, 0)

	if !Unregister[*procA](s) {
		t.Fatalf("expected procA to be removed")
	}
	s.Tick()
	if got := strings.Join(rec.calls, ","); got != "B" {
		t.Fatalf("expected only B to run, got %s", got)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected diagnostic: %s", logs.String())
	}

	if Unregister[*procA](s) {
		t.Fatalf("second unregister must report false")
	}
	if !strings.Contains(logs.String(), "not registered") {
		t.Fatalf("expected a diagnostic, got %q", logs.String())
	}
}

func TestNamedProcessors(t *testing.T) {
	s, _ := newTestScene(t)
	var order []string
	s.Register(NamedProcessor("low", 1, func(*Scene, ...any) { order = append(order, "low") }), 0)
	s.Register(NamedProcessor("high", 2, func(*Scene, ...any) { order = append(order, "high") }), 0)
	s.Register(NamedProcessor("high", 9, func(*Scene, ...any) { order = append(order, "dup") }), 0)

	s.Tick()
	if got := strings.Join(order, ","); got != "high,low" {
		t.Fatalf("expected high,low, got %s", got)
	}
	if _, ok := s.FetchNamed("low"); !ok {
		t.Fatalf("expected to fetch low")
	}
	if !s.UnregisterNamed("low") || s.UnregisterNamed("low") {
		t.Fatalf("unexpected unregister results")
	}
	if s.UnregisterNamed("") {
		t.Fatalf("empty name must not match unnamed processors")
	}
}

func TestTickForwardsArgs(t *testing.T) {
	s, _ := newTestScene(t)
	b := &bare{}
	s.Register(b, 0)
	s.Tick(1, "two")
	if len(b.got) != 2 || b.got[0] != 1 || b.got[1] != "two" {
		t.Fatalf("expected forwarded args, got %v", b.got)
	}
}

func TestTickFlushesBeforeProcessors(t *testing.T) {
	s, _ := newTestScene(t)
	pos := component.NewComponent[*position]()
	e := s.CreateEntity(component.With(pos, &position{}))
	s.DestroyEntity(e)

	seen := -1
	s.Register(NamedProcessor("count", 0, func(s *Scene, _ ...any) {
		seen = len(Entities(s, pos))
	}), 0)
	s.Tick()
	if seen != 0 {
		t.Fatalf("processors must observe the flushed store, saw %d", seen)
	}
}

func TestRegistrationDuringTick(t *testing.T) {
	s, _ := newTestScene(t)
	rec := &recorder{}
	s.Register(NamedProcessor("spawner", 10, func(s *Scene, _ ...any) {
		s.Register(&procA{rec: rec}, 1)
	}), 0)

	s.Tick()
	if len(rec.calls) != 0 {
		t.Fatalf("a processor registered mid-tick runs from the next tick")
	}
	s.Tick()
	if len(rec.calls) != 1 {
		t.Fatalf("expected procA to run once, got %d", len(rec.calls))
	}
}

func TestTimedTick(t *testing.T) {
	s, _ := newTestScene(t)
	rec := &recorder{}
	s.Register(&procA{rec: rec}, 0)
	s.Register(NamedProcessor("script", 0, func(*Scene, ...any) {}), 0)

	for i := 0; i < 3; i++ {
		s.TimedTick()
	}
	times := s.ProcessTimes()
	if _, ok := times["procA"]; !ok {
		t.Fatalf("expected timing for procA, got %v", times)
	}
	if _, ok := times["script"]; !ok {
		t.Fatalf("expected timing for named processor, got %v", times)
	}
	if got := len(s.ProcessHistory("procA")); got != 3 {
		t.Fatalf("expected 3 history entries, got %d", got)
	}
	if len(rec.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(rec.calls))
	}

	s.ResetTimings()
	if len(s.ProcessTimes()) != 0 || len(s.ProcessHistory("procA")) != 0 {
		t.Fatalf("expected timings to be cleared")
	}
}

func TestBaselineScenario(t *testing.T) {
	r := NewRegistry(WithLogger(discardLogger()))
	game := r.Create("game")
	pos := component.NewComponent[*position]()

	e1 := game.CreateEntity(component.With(pos, &position{X: 0, Y: 0}))
	game.Register(&move{}, 1)
	game.Tick()

	got, err := Get(game, e1, pos)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.X != 0 || got.Y != 0 {
		t.Fatalf("expected unchanged position, got %+v", got)
	}
}
