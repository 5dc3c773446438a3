package game

import (
	"testing"

	"github.com/pthm-cable/rpsarena/components"
	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/systems"
	"github.com/pthm-cable/rpsarena/telemetry"
)

const (
	rock     components.Kind = 0
	paper    components.Kind = 1
	scissors components.Kind = 2
)

// cfgOption adjusts the default config before it is finalized.
type cfgOption func(*config.Config)

func withArena(w, h int) cfgOption {
	return func(c *config.Config) {
		c.Arena.Width = w
		c.Arena.Height = h
	}
}

func withPerKind(n int) cfgOption {
	return func(c *config.Config) { c.Units.PerKind = n }
}

// withUnits sets an explicit unit count for each kind in order.
func withUnits(counts ...int) cfgOption {
	return func(c *config.Config) {
		for i := range counts {
			n := counts[i]
			c.Kinds[i].Units = &n
		}
	}
}

func withObstacleCount(n int) cfgOption {
	return func(c *config.Config) { c.Obstacles.Count = n }
}

func withJitter(j float64) cfgOption {
	return func(c *config.Config) { c.Motion.Jitter = j }
}

func withFastForward(on bool) cfgOption {
	return func(c *config.Config) { c.Timing.FastForward = on }
}

func withSession(seed int64, games, maxSteps int) cfgOption {
	return func(c *config.Config) {
		c.Session.Seed = seed
		c.Session.NumGames = games
		c.Session.MaxSteps = maxSteps
	}
}

func withStallSteps(n int) cfgOption {
	return func(c *config.Config) { c.Session.StallSteps = n }
}

// withKinds replaces the kind table with a single cycle over names.
func withKinds(names ...string) cfgOption {
	return func(c *config.Config) {
		c.Kinds = make([]config.KindConfig, len(names))
		for i, n := range names {
			c.Kinds[i] = config.KindConfig{Name: n, Beats: names[(i+1)%len(names)], Color: "black"}
		}
	}
}

func newTestConfig(t *testing.T, opts ...cfgOption) *config.Config {
	t.Helper()
	cfg, err := config.LoadRaw("")
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, seed int64, opts ...Option) *Game {
	t.Helper()
	g, err := NewGame(cfg, seed, opts...)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// agent is shorthand for a constructed scenario entry.
func agent(kind components.Kind, x, y float32) systems.AgentState {
	return systems.AgentState{Kind: kind, X: x, Y: y}
}

// recordingSink keeps every record it receives.
type recordingSink struct {
	counts    []telemetry.CountSnapshot
	summaries []telemetry.GameSummary
}

func (r *recordingSink) WriteCounts(s telemetry.CountSnapshot) error {
	r.counts = append(r.counts, s)
	return nil
}

func (r *recordingSink) WriteSummary(s telemetry.GameSummary) error {
	r.summaries = append(r.summaries, s)
	return nil
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
