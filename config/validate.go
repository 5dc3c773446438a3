package config

import (
	"fmt"
)

// ConfigError reports an invalid configuration value. It is returned before
// any game starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration. Derived.Blocks must already hold the
// resolved obstacle list (Finalize does this).
func (c *Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return configErr("arena", "dimensions must be positive, got %dx%d", c.Arena.Width, c.Arena.Height)
	}
	if c.Units.Radius <= 0 {
		return configErr("units.radius", "must be positive, got %g", c.Units.Radius)
	}
	if float64(c.Arena.Width) <= 2*c.Units.Radius || float64(c.Arena.Height) <= 2*c.Units.Radius {
		return configErr("arena", "%dx%d is too small for radius %g", c.Arena.Width, c.Arena.Height, c.Units.Radius)
	}
	if c.Units.PerKind < 0 {
		return configErr("units.per_kind", "must not be negative, got %d", c.Units.PerKind)
	}
	if c.Units.MinSeparation < 0 {
		return configErr("units.min_separation", "must not be negative, got %g", c.Units.MinSeparation)
	}
	if err := c.validateKinds(); err != nil {
		return err
	}

	total := 0
	for _, k := range c.Kinds {
		n := c.unitsFor(k)
		if n < 0 {
			return configErr("kinds."+k.Name+".units", "must not be negative, got %d", n)
		}
		total += n
	}
	if total == 0 {
		return configErr("units", "total population is zero")
	}

	if c.Motion.Speed <= 0 {
		return configErr("motion.speed", "must be positive, got %g", c.Motion.Speed)
	}
	if c.Motion.Jitter < 0 {
		return configErr("motion.jitter", "must not be negative, got %g", c.Motion.Jitter)
	}
	if c.Motion.ContactRadius <= 0 {
		return configErr("motion.contact_radius", "must be positive, got %g", c.Motion.ContactRadius)
	}
	if c.Timing.DelayMS < 0 {
		return configErr("timing.delay_ms", "must not be negative, got %d", c.Timing.DelayMS)
	}
	if c.Timing.PostgameDelayMS < 0 || c.Timing.CountdownS < 0 {
		return configErr("timing", "delays must not be negative")
	}
	if c.Session.NumGames < 0 || c.Session.MaxSteps < 0 || c.Session.StallSteps < 0 {
		return configErr("session", "num_games, max_steps and stall_steps must not be negative")
	}
	if c.Telemetry.SnapshotEvery < 0 {
		return configErr("telemetry.snapshot_every", "must not be negative, got %d", c.Telemetry.SnapshotEvery)
	}
	return c.validateObstacles()
}

// validateKinds requires a single beats cycle over at least three kinds.
func (c *Config) validateKinds() error {
	n := len(c.Kinds)
	if n < 3 {
		return configErr("kinds", "need at least 3 kinds, got %d", n)
	}
	if n > 255 {
		return configErr("kinds", "at most 255 kinds are supported, got %d", n)
	}

	index := make(map[string]int, n)
	for i, k := range c.Kinds {
		if k.Name == "" {
			return configErr("kinds", "kind %d has no name", i)
		}
		if _, dup := index[k.Name]; dup {
			return configErr("kinds", "duplicate kind %q", k.Name)
		}
		index[k.Name] = i
	}

	beats := make([]int, n)
	beatenBy := make([]int, n)
	for i := range beatenBy {
		beatenBy[i] = -1
	}
	for i, k := range c.Kinds {
		j, ok := index[k.Beats]
		if !ok {
			return configErr("kinds."+k.Name+".beats", "unknown kind %q", k.Beats)
		}
		if j == i {
			return configErr("kinds."+k.Name+".beats", "a kind cannot beat itself")
		}
		if beatenBy[j] >= 0 {
			return configErr("kinds."+k.Name+".beats", "%q is already beaten by %q", k.Beats, c.Kinds[beatenBy[j]].Name)
		}
		beats[i] = j
		beatenBy[j] = i
	}

	for i, k := range c.Kinds {
		if k.LosesTo == "" {
			continue
		}
		if want := c.Kinds[beatenBy[i]].Name; k.LosesTo != want {
			return configErr("kinds."+k.Name+".loses_to", "is %q but %q beats it", k.LosesTo, want)
		}
	}

	// Follow the cycle from kind 0; it must visit every kind.
	seen := 1
	for cur := beats[0]; cur != 0; cur = beats[cur] {
		seen++
	}
	if seen != n {
		return configErr("kinds", "beats forms a cycle of %d kinds, want one cycle of all %d", seen, n)
	}
	return nil
}

func (c *Config) validateObstacles() error {
	if c.Obstacles.Count < 0 {
		return configErr("obstacles.count", "must not be negative, got %d", c.Obstacles.Count)
	}
	if c.Obstacles.MaxCoverage < 0 || c.Obstacles.MaxCoverage > 1 {
		return configErr("obstacles.max_coverage", "must be within [0, 1], got %g", c.Obstacles.MaxCoverage)
	}
	arenaArea := float64(c.Arena.Width) * float64(c.Arena.Height)
	var covered float64
	for i, b := range c.Derived.Blocks {
		if b.Width <= 0 || b.Height <= 0 {
			return configErr(fmt.Sprintf("obstacles.blocks[%d]", i), "width and height must be positive")
		}
		if b.Left < 0 || b.Top < 0 {
			return configErr(fmt.Sprintf("obstacles.blocks[%d]", i), "top and left must not be negative")
		}
		covered += float64(b.Width) * float64(b.Height)
	}
	if covered > arenaArea*c.Obstacles.MaxCoverage {
		return configErr("obstacles", "blocks cover %.1f%% of the arena, limit is %.1f%%",
			100*covered/arenaArea, 100*c.Obstacles.MaxCoverage)
	}
	return nil
}
