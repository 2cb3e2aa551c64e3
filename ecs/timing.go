package ecs

import (
	"maps"
	"slices"
	"time"
)

// timingTable records how long each processor took during TimedTick. last
// holds the most recent duration per processor, history every duration in
// call order.
type timingTable struct {
	last    map[string]time.Duration
	history map[string][]time.Duration
}

func newTimingTable() timingTable {
	return timingTable{
		last:    make(map[string]time.Duration),
		history: make(map[string][]time.Duration),
	}
}

func (t *timingTable) record(name string, d time.Duration) {
	t.last[name] = d
	t.history[name] = append(t.history[name], d)
}

func (t *timingTable) reset() {
	clear(t.last)
	clear(t.history)
}

// ProcessTimes returns a copy of the last recorded duration per processor.
func (s *Scene) ProcessTimes() map[string]time.Duration {
	return maps.Clone(s.timings.last)
}

// ProcessHistory returns every duration recorded for the named processor,
// oldest first.
func (s *Scene) ProcessHistory(name string) []time.Duration {
	return slices.Clone(s.timings.history[name])
}

// ResetTimings drops all recorded durations.
func (s *Scene) ResetTimings() {
	s.timings.reset()
}
