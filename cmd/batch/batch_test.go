package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/telemetry"
)

func newBatch(t *testing.T) *batch {
	t.Helper()
	cfg, err := config.LoadRaw("")
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	cfg.Arena.Width, cfg.Arena.Height = 200, 200
	cfg.Units.PerKind = 3
	cfg.Session.MaxSteps = 2000
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	output, err := telemetry.NewOutputManager(t.TempDir(), cfg.KindNames())
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	t.Cleanup(func() { output.Close() })

	return &batch{cfg: cfg, runID: "batch-test", output: output, stats: telemetry.NewSessionStats(cfg.KindNames())}
}

func TestBatchRun(t *testing.T) {
	b := newBatch(t)

	var calls int
	done, err := b.run(context.Background(), 6, 10, 3, func(int) { calls++ })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if done != 6 || calls != 6 {
		t.Errorf("done=%d progress calls=%d, want 6", done, calls)
	}

	sum := b.stats.Summary()
	if sum.Games+sum.Abandoned != 6 {
		t.Errorf("stats saw %d games, want 6", sum.Games+sum.Abandoned)
	}

	b.output.Close()
	data, err := os.ReadFile(filepath.Join(b.output.Dir(), "games.csv"))
	if err != nil {
		t.Fatalf("reading games.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("games.csv has %d lines, want header + 6", len(lines))
	}
	seeds := make(map[string]bool)
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if fields[0] != "batch-test" {
			t.Errorf("row run id = %q", fields[0])
		}
		seeds[fields[2]] = true
	}
	for s := 10; s < 16; s++ {
		if !seeds[strconv.Itoa(s)] {
			t.Errorf("no row for seed %d", s)
		}
	}
}

func TestBatchCancelled(t *testing.T) {
	b := newBatch(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done, err := b.run(ctx, 4, 1, 2, nil)
	if err == nil {
		t.Fatal("expected an error from a cancelled batch")
	}
	if done > 4 {
		t.Errorf("done = %d", done)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{75 * time.Second, "1m15s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{0, "0m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
