package game

import (
	"time"

	"github.com/pthm-cable/rpsarena/components"
)

// Phase is the game state machine position.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseFastForward
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFastForward:
		return "fast_forward"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// State is the per-game bookkeeping the driver and renderer read.
// Counts always sum to Population.
type State struct {
	Step        int
	KindCounts  []int // Indexed by kind
	Population  int
	Seed        int64
	StartTime   time.Time
	Elapsed     time.Duration
	FastForward bool
	Phase       Phase
}

// Remaining returns the number of kinds with a nonzero count.
func (s *State) Remaining() int {
	n := 0
	for _, c := range s.KindCounts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Winner returns the only surviving kind once the game has ended.
func (s *State) Winner() (components.Kind, bool) {
	if s.Phase != PhaseEnded {
		return 0, false
	}
	for k, c := range s.KindCounts {
		if c > 0 {
			return components.Kind(k), true
		}
	}
	return 0, false
}

// clone returns a copy that does not share the counts slice.
func (s *State) clone() State {
	c := *s
	c.KindCounts = append([]int(nil), s.KindCounts...)
	return c
}
