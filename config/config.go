// Package config provides configuration loading and validation for the arena.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all arena configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Units     UnitsConfig     `yaml:"units"`
	Kinds     []KindConfig    `yaml:"kinds"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Motion    MotionConfig    `yaml:"motion"`
	Timing    TimingConfig    `yaml:"timing"`
	Session   SessionConfig   `yaml:"session"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`  // Window width (0 = arena width)
	Height     int    `yaml:"height"` // Window height (0 = arena height)
	TargetFPS  int    `yaml:"target_fps"`
	Background string `yaml:"background"` // Colour name, #hex, or image path
	ShowStats  bool   `yaml:"show_stats"`
}

// ArenaConfig holds the playfield dimensions.
type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// UnitsConfig holds agent population parameters.
type UnitsConfig struct {
	PerKind       int     `yaml:"per_kind"`
	Radius        float64 `yaml:"radius"`         // Body radius, keeps agents off walls and obstacles
	MinSeparation float64 `yaml:"min_separation"` // Preferred spacing at placement
	GridCellSize  float64 `yaml:"grid_cell_size"` // Spatial index cell size (0 = 4*radius)
}

// KindConfig describes one kind of the domination cycle.
type KindConfig struct {
	Name    string `yaml:"name"`
	Emoji   string `yaml:"emoji"`
	Beats   string `yaml:"beats"`
	LosesTo string `yaml:"loses_to,omitempty"` // Optional, must be the inverse of beats
	Color   string `yaml:"color"`
	Units   *int   `yaml:"units,omitempty"` // Overrides units.per_kind
}

// Label returns the emoji if set, otherwise the name.
func (k KindConfig) Label() string {
	if k.Emoji != "" {
		return k.Emoji
	}
	return k.Name
}

// ObstaclesConfig selects random, file-based or inline obstacles.
type ObstaclesConfig struct {
	Count       int     `yaml:"count"`        // Random blocks per game (ignored when blocks are given)
	File        string  `yaml:"file"`         // JSON or YAML obstacle document
	Blocks      []Block `yaml:"blocks"`       // Inline blocks
	MaxCoverage float64 `yaml:"max_coverage"` // Fraction of arena area obstacles may cover
}

// MotionConfig holds per-tick movement parameters.
type MotionConfig struct {
	Speed         float64 `yaml:"speed"`          // Distance per tick
	Jitter        float64 `yaml:"jitter"`         // Random direction noise, seeded
	ContactRadius float64 `yaml:"contact_radius"` // Centre distance that counts as contact
}

// TimingConfig holds driver delays. None of these affect simulation results.
type TimingConfig struct {
	DelayMS         int  `yaml:"delay_ms"`
	FastForward     bool `yaml:"fast_forward"`
	PostgameDelayMS int  `yaml:"postgame_delay_ms"`
	CountdownS      int  `yaml:"countdown_s"`
}

// SessionConfig holds multi-game driver parameters.
type SessionConfig struct {
	Seed       int64 `yaml:"seed"`        // 0 = random
	NumGames   int   `yaml:"num_games"`   // 0 = unlimited
	MaxSteps   int   `yaml:"max_steps"`   // 0 = no limit; longer games are abandoned
	StallSteps int   `yaml:"stall_steps"` // Ticks without a conversion before a game is stalled; 0 = never
}

// TelemetryConfig holds snapshot and output parameters.
type TelemetryConfig struct {
	SnapshotEvery int    `yaml:"snapshot_every"` // 0 = on ticks with a conversion
	LogFile       string `yaml:"log_file"`
	OutputDir     string `yaml:"output_dir"` // CSV output directory ("" = disabled)
	Quiet         bool   `yaml:"quiet"`
	PerfWindow    int    `yaml:"perf_window"` // Ticks per perf window (0 = disabled)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	KindIndex     map[string]uint8
	Beats         []uint8 // Beats[k] is the kind k defeats
	LosesTo       []uint8 // LosesTo[k] is the kind that defeats k
	UnitCounts    []int
	Population    int
	Blocks        []Block // File blocks followed by inline blocks
	ArenaW32      float32
	ArenaH32      float32
	ScreenW       int
	ScreenH       int
	Radius32      float32
	Speed32       float32
	Jitter32      float32
	Contact32     float32
	CellSize32    float32
	Delay         time.Duration
	MinDelay      time.Duration
	PostgameDelay time.Duration
	Countdown     time.Duration
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// and finalizes it. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRaw loads and merges configuration without validating it, so callers
// can apply overrides before calling Finalize.
func LoadRaw(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Finalize loads the obstacle file, validates the configuration and computes
// derived values. It must be called again after any field is changed.
func (c *Config) Finalize() error {
	var fileBlocks []Block
	if c.Obstacles.File != "" {
		blocks, err := LoadBlocks(c.Obstacles.File)
		if err != nil {
			return err
		}
		fileBlocks = blocks
	}
	c.Derived.Blocks = append(fileBlocks, c.Obstacles.Blocks...)

	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from a validated config.
func (c *Config) computeDerived() {
	d := &c.Derived
	d.KindIndex = make(map[string]uint8, len(c.Kinds))
	for i, k := range c.Kinds {
		d.KindIndex[k.Name] = uint8(i)
	}
	d.Beats = make([]uint8, len(c.Kinds))
	d.LosesTo = make([]uint8, len(c.Kinds))
	d.UnitCounts = make([]int, len(c.Kinds))
	d.Population = 0
	for i, k := range c.Kinds {
		prey := d.KindIndex[k.Beats]
		d.Beats[i] = prey
		d.LosesTo[prey] = uint8(i)
		d.UnitCounts[i] = c.unitsFor(k)
		d.Population += d.UnitCounts[i]
	}

	d.ArenaW32 = float32(c.Arena.Width)
	d.ArenaH32 = float32(c.Arena.Height)
	d.ScreenW = c.Screen.Width
	if d.ScreenW == 0 {
		d.ScreenW = c.Arena.Width
	}
	d.ScreenH = c.Screen.Height
	if d.ScreenH == 0 {
		d.ScreenH = c.Arena.Height
	}

	d.Radius32 = float32(c.Units.Radius)
	d.Speed32 = float32(c.Motion.Speed)
	d.Jitter32 = float32(c.Motion.Jitter)
	d.Contact32 = float32(c.Motion.ContactRadius)
	d.CellSize32 = float32(c.Units.GridCellSize)
	if d.CellSize32 <= 0 {
		d.CellSize32 = 4 * d.Radius32
	}

	delay := c.Timing.DelayMS
	if delay < 1 {
		delay = 1
	}
	d.Delay = time.Duration(delay) * time.Millisecond
	d.MinDelay = time.Millisecond
	d.PostgameDelay = time.Duration(c.Timing.PostgameDelayMS) * time.Millisecond
	d.Countdown = time.Duration(c.Timing.CountdownS) * time.Second
}

func (c *Config) unitsFor(k KindConfig) int {
	if k.Units != nil {
		return *k.Units
	}
	return c.Units.PerKind
}

// KindLabels returns the display label of every kind in index order.
func (c *Config) KindLabels() []string {
	labels := make([]string, len(c.Kinds))
	for i, k := range c.Kinds {
		labels[i] = k.Label()
	}
	return labels
}

// KindNames returns the name of every kind in index order.
func (c *Config) KindNames() []string {
	names := make([]string, len(c.Kinds))
	for i, k := range c.Kinds {
		names[i] = k.Name
	}
	return names
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
