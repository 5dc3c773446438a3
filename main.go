package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/game"
	"github.com/pthm-cable/rpsarena/telemetry"
	"github.com/pthm-cable/rpsarena/ui"
)

func main() {
	if err := run(); err != nil {
		slog.Error("rpsarena failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env provides defaults for the environment lookups below
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	// CLI flags
	configPath := flag.String("config", os.Getenv("RPSARENA_CONFIG"), "Path to config.yaml (empty = use defaults)")
	width := flag.Int("width", 0, "Arena width in pixels")
	height := flag.Int("height", 0, "Arena height in pixels")
	units := flag.Int("u", 0, "Units per kind")
	delay := flag.Int("d", 0, "Delay between ticks in ms")
	seed := flag.Int64("seed", 0, "Base seed (0 = random)")
	numGames := flag.Int("n", 0, "Number of games (0 = unlimited)")
	noFF := flag.Bool("noff", false, "Disable fast-forward")
	background := flag.String("bg", "", "Background colour or image path")
	countdown := flag.Int("countdown", 0, "Seconds of countdown before each game")
	windowless := flag.Bool("windowless", false, "Run without a window")
	quiet := flag.Bool("q", false, "Do not mirror the text log to stdout")
	showStats := flag.Bool("showstats", false, "Show the stats panel")
	blocks := flag.String("blocks", "", "0, a random block count, or an obstacle file")
	outputDir := flag.String("output-dir", os.Getenv("RPSARENA_OUTPUT_DIR"), "Directory for CSV logs and config snapshot")
	logFile := flag.String("log-file", "", "Text log path")
	snapshotEvery := flag.Int("snapshot-every", 0, "Emit counts every N steps (0 = on conversions)")
	maxSteps := flag.Int("max-steps", 0, "Abandon games after N steps (0 = no limit)")
	stallSteps := flag.Int("stall-steps", 0, "Abandon games after N steps without a conversion (0 = never)")
	perfWindow := flag.Int("perf-window", 0, "Ticks per perf window (0 = disabled)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	// Set up slog (JSON to stderr; stdout carries the text log)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.LoadRaw(*configPath)
	if err != nil {
		return err
	}

	// Flags override the config file only when given
	if set["width"] {
		cfg.Arena.Width = *width
	}
	if set["height"] {
		cfg.Arena.Height = *height
	}
	if set["u"] {
		cfg.Units.PerKind = *units
		for i := range cfg.Kinds {
			cfg.Kinds[i].Units = nil
		}
	}
	if set["d"] {
		cfg.Timing.DelayMS = *delay
	}
	if set["seed"] {
		cfg.Session.Seed = *seed
	}
	if set["n"] {
		cfg.Session.NumGames = *numGames
	} else if *windowless && cfg.Session.NumGames == 0 {
		cfg.Session.NumGames = 1
	}
	if *noFF {
		cfg.Timing.FastForward = false
	}
	if set["bg"] {
		cfg.Screen.Background = *background
	}
	if set["countdown"] {
		cfg.Timing.CountdownS = *countdown
	}
	if *quiet {
		cfg.Telemetry.Quiet = true
	}
	if *showStats {
		cfg.Screen.ShowStats = true
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if set["log-file"] {
		cfg.Telemetry.LogFile = *logFile
	}
	if set["snapshot-every"] {
		cfg.Telemetry.SnapshotEvery = *snapshotEvery
	}
	if set["max-steps"] {
		cfg.Session.MaxSteps = *maxSteps
	}
	if set["stall-steps"] {
		cfg.Session.StallSteps = *stallSteps
	}
	if set["perf-window"] {
		cfg.Telemetry.PerfWindow = *perfWindow
	}
	if err := cfg.ApplyBlocksOption(*blocks); err != nil {
		return err
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	runID := uuid.NewString()
	slog.Info("starting run", "run_id", runID, "windowless", *windowless,
		"kinds", cfg.KindNames(), "population", cfg.Derived.Population, "seed", cfg.Session.Seed)

	// Telemetry sinks
	textLog, err := telemetry.OpenTextLog(cfg.Telemetry.LogFile, cfg.Telemetry.Quiet, runHeader(cfg, runID, *blocks))
	if err != nil {
		return err
	}
	defer textLog.Close()

	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir, cfg.KindNames())
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	stats := telemetry.NewSessionStats(cfg.KindNames())
	emitter := telemetry.NewEmitter(runID, cfg.Telemetry.SnapshotEvery,
		textLog, telemetry.LogSink{Kinds: cfg.KindNames()}, stats)
	if output != nil {
		emitter.AddSink(output)
	}

	var perf *telemetry.PerfCollector
	if cfg.Telemetry.PerfWindow > 0 {
		perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := game.NewSession(cfg, game.SessionOptions{Emitter: emitter, Perf: perf, Output: output})
	if err != nil {
		return err
	}

	start := time.Now()
	if *windowless {
		err = session.RunHeadless(ctx)
	} else {
		err = runWindow(ctx, cfg, session, perf)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	summary := stats.Summary()
	summary.LogStats()
	slog.Info("run finished", "run_id", runID, "base_seed", session.BaseSeed(),
		"games", session.GamesPlayed(), "wall", time.Since(start).Round(time.Millisecond))
	return nil
}

// runWindow opens the raylib window sized to the arena plus the control bar.
func runWindow(ctx context.Context, cfg *config.Config, session *game.Session, perf *telemetry.PerfCollector) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Derived.ScreenW), int32(cfg.Derived.ScreenH+ui.ControlBarHeight), "RPS Arena")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	return game.NewApp(cfg, session, perf).Run(ctx)
}

func runHeader(cfg *config.Config, runID, blocks string) telemetry.RunHeader {
	seed := "random"
	if cfg.Session.Seed != 0 {
		seed = strconv.FormatInt(cfg.Session.Seed, 10)
	}
	if blocks == "" {
		switch {
		case cfg.RandomObstacles():
			blocks = strconv.Itoa(cfg.Obstacles.Count)
		case cfg.Obstacles.File != "":
			blocks = cfg.Obstacles.File
		default:
			blocks = strconv.Itoa(len(cfg.Derived.Blocks))
		}
	}
	return telemetry.RunHeader{
		Start:        time.Now(),
		RunID:        runID,
		Width:        cfg.Arena.Width,
		Height:       cfg.Arena.Height,
		UnitsPerKind: cfg.Units.PerKind,
		TotalUnits:   cfg.Derived.Population,
		DelayMS:      int(cfg.Derived.Delay / time.Millisecond),
		Seed:         seed,
		Kinds:        cfg.KindNames(),
		Labels:       cfg.KindLabels(),
		FastForward:  cfg.Timing.FastForward,
		NumGames:     cfg.Session.NumGames,
		Blocks:       blocks,
	}
}
