// Package main runs many headless arena games in parallel and writes their
// counts and outcomes as CSV, followed by an aggregate over the batch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/telemetry"
)

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	games := flag.Int("games", 100, "Number of games to play")
	seed := flag.Int64("seed", 1, "Seed of the first game; game i uses seed+i")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Games played concurrently")
	maxSteps := flag.Int("max-steps", 100000, "Abandon games after N steps (0 = no limit)")
	blocks := flag.String("blocks", "", "0, a random block count, or an obstacle file")
	outputDir := flag.String("output", "", "Output directory for results")
	snapshotEvery := flag.Int("snapshot-every", 0, "Emit counts every N steps (0 = on conversions)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fatal("-output is required")
	}
	if *games < 1 || *workers < 1 {
		fatal("-games and -workers must be positive")
	}

	cfg, err := config.LoadRaw(*configPath)
	if err != nil {
		fatal(err.Error())
	}
	cfg.Session.MaxSteps = *maxSteps
	cfg.Telemetry.SnapshotEvery = *snapshotEvery
	if err := cfg.ApplyBlocksOption(*blocks); err != nil {
		fatal(err.Error())
	}
	if err := cfg.Finalize(); err != nil {
		fatal(err.Error())
	}

	output, err := telemetry.NewOutputManager(*outputDir, cfg.KindNames())
	if err != nil {
		fatal(err.Error())
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	stats := telemetry.NewSessionStats(cfg.KindNames())
	fmt.Printf("Batch %s: %d games on %d workers, seeds %d..%d\n", runID, *games, *workers, *seed, *seed+int64(*games)-1)

	b := &batch{cfg: cfg, runID: runID, output: output, stats: stats}
	start := time.Now()
	done, err := b.run(ctx, *games, *seed, *workers, func(done int) {
		elapsed := time.Since(start)
		remaining := time.Duration(float64(elapsed) / float64(done) * float64(*games-done))
		fmt.Printf("\r%d/%d games  elapsed %s  remaining %s", done, *games, formatDuration(elapsed), formatDuration(remaining))
	})
	fmt.Println()
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err.Error())
	}

	summary := stats.Summary()
	fmt.Printf("Played %d games in %s (%d abandoned)\n", done, formatDuration(time.Since(start)), summary.Abandoned)
	fmt.Printf("Steps: mean %.1f  std %.1f  median %.0f  p90 %.0f\n",
		summary.MeanSteps, summary.StdSteps, summary.MedianSteps, summary.P90Steps)
	for _, k := range summary.Kinds {
		fmt.Printf("  %-10s %d wins\n", k, summary.Wins[k])
	}
	fmt.Printf("Results written to %s\n", output.Dir())
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "batch:", msg)
	os.Exit(1)
}
