package game

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/telemetry"
)

func newTestSession(t *testing.T, cfg *config.Config, sink telemetry.Sink) *Session {
	t.Helper()
	s, err := NewSession(cfg, SessionOptions{Emitter: telemetry.NewEmitter("test-run", 0, sink)})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSessionSeeds(t *testing.T) {
	cfg := newTestConfig(t, withArena(200, 200), withPerKind(3), withSession(5, 3, 3000))
	sink := &recordingSink{}
	s := newTestSession(t, cfg, sink)

	if err := s.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if s.GamesPlayed() != 3 || !s.Done() {
		t.Errorf("played %d games, done=%v", s.GamesPlayed(), s.Done())
	}
	if len(sink.summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(sink.summaries))
	}
	for i, sum := range sink.summaries {
		if sum.Game != i+1 || sum.Seed != int64(5+i) || sum.RunID != "test-run" {
			t.Errorf("summary %d = %+v", i, sum)
		}
		if sum.Reason != telemetry.EndWinner && sum.Reason != telemetry.EndStepLimit {
			t.Errorf("summary %d reason = %q", i, sum.Reason)
		}
	}
}

func TestSessionAbandons(t *testing.T) {
	tests := []struct {
		name       string
		opts       []cfgOption
		wantReason string
		wantSteps  int
	}{
		{
			name:       "step limit",
			opts:       []cfgOption{withArena(400, 400), withPerKind(20), withSession(1, 1, 5)},
			wantReason: telemetry.EndStepLimit,
			wantSteps:  5,
		},
		{
			name:       "stalled",
			opts:       []cfgOption{withArena(400, 400), withKinds("a", "b", "c", "d"), withUnits(1, 0, 1, 0), withSession(1, 1, 0)},
			wantReason: telemetry.EndStalled,
			wantSteps:  1,
		},
		{
			name:       "no conversions",
			opts:       []cfgOption{withArena(400, 400), withPerKind(20), withSession(1, 1, 0), withStallSteps(1)},
			wantReason: telemetry.EndStalled,
			wantSteps:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			s := newTestSession(t, newTestConfig(t, tt.opts...), sink)
			if err := s.RunHeadless(context.Background()); err != nil {
				t.Fatalf("RunHeadless: %v", err)
			}
			if len(sink.summaries) != 1 {
				t.Fatalf("got %d summaries, want 1", len(sink.summaries))
			}
			got := sink.summaries[0]
			if got.Reason != tt.wantReason || got.TotalSteps != tt.wantSteps || got.FinalKind != "" {
				t.Errorf("summary = %+v", got)
			}
		})
	}
}

func TestSessionGameDecidedAtPlacement(t *testing.T) {
	cfg := newTestConfig(t, withArena(200, 200), withUnits(3, 0, 0), withSession(4, 2, 0))
	sink := &recordingSink{}
	s := newTestSession(t, cfg, sink)

	if err := s.RunHeadless(context.Background()); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if len(sink.summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sink.summaries))
	}
	for i, sum := range sink.summaries {
		if sum.Reason != telemetry.EndWinner || sum.FinalKind != "rock" || sum.TotalSteps != 0 || sum.Seed != int64(4+i) {
			t.Errorf("summary %d = %+v", i, sum)
		}
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	cfg := newTestConfig(t, withArena(400, 400), withPerKind(10), withSession(1, 0, 0))
	sink := &recordingSink{}
	s := newTestSession(t, cfg, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.RunHeadless(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("RunHeadless = %v, want context.Canceled", err)
	}
	if len(sink.summaries) != 1 || sink.summaries[0].Reason != telemetry.EndCancelled {
		t.Errorf("summaries = %+v", sink.summaries)
	}
}

func TestSessionRandomSeed(t *testing.T) {
	cfg := newTestConfig(t, withArena(200, 200), withPerKind(2), withSession(0, 1, 0))
	s := newTestSession(t, cfg, &recordingSink{})
	if seed := s.BaseSeed(); seed < 1 || seed > 1_000_000 {
		t.Errorf("base seed %d outside [1, 1e6]", seed)
	}
	if s.Seed() != s.BaseSeed() || s.Game().State().Seed != s.Seed() {
		t.Error("first game does not use the base seed")
	}
}

func TestSessionObstaclesAcrossResets(t *testing.T) {
	t.Run("fixed blocks persist", func(t *testing.T) {
		cfg := newTestConfig(t, withArena(400, 400), withPerKind(5), withSession(3, 2, 0), func(c *config.Config) {
			c.Obstacles.Blocks = []config.Block{{Top: 50, Left: 60, Width: 40, Height: 30, Color: "navy"}}
		})
		s := newTestSession(t, cfg, &recordingSink{})
		first := slices.Clone(s.Game().Obstacles())
		if len(first) != 1 || first[0].X != 60 || first[0].Y != 50 || first[0].Color != "navy" {
			t.Fatalf("obstacles = %+v", first)
		}
		if more, err := s.Advance(); err != nil || !more {
			t.Fatalf("Advance = %v, %v", more, err)
		}
		if !slices.Equal(first, s.Game().Obstacles()) {
			t.Error("fixed obstacles changed across reset")
		}
		if s.Seed() != 4 {
			t.Errorf("seed after reset = %d, want 4", s.Seed())
		}
	})

	t.Run("random blocks regenerate", func(t *testing.T) {
		cfg := newTestConfig(t, withArena(400, 400), withPerKind(5), withObstacleCount(3), withSession(3, 2, 0))
		s := newTestSession(t, cfg, &recordingSink{})
		first := slices.Clone(s.Game().Obstacles())
		if _, err := s.Advance(); err != nil {
			t.Fatal(err)
		}
		if slices.Equal(first, s.Game().Obstacles()) {
			t.Error("random obstacles identical across reset")
		}
	})
}

func TestPlayGame(t *testing.T) {
	cfg := newTestConfig(t, withArena(200, 200), withPerKind(4), withSession(0, 0, 2000))

	play := func() (telemetry.GameSummary, *recordingSink) {
		sink := &recordingSink{}
		sum, err := PlayGame(context.Background(), cfg, 7, 42, SessionOptions{Emitter: telemetry.NewEmitter("batch", 0, sink)})
		if err != nil {
			t.Fatalf("PlayGame: %v", err)
		}
		return sum, sink
	}

	a, sinkA := play()
	b, _ := play()
	if a.TotalSteps != b.TotalSteps || a.FinalKind != b.FinalKind || a.Reason != b.Reason {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
	if len(sinkA.summaries) != 1 || sinkA.summaries[0].Game != 7 || sinkA.summaries[0].Seed != 42 {
		t.Errorf("emitted summaries = %+v", sinkA.summaries)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := PlayGame(ctx, cfg, 1, 42, SessionOptions{})
	if !errors.Is(err, context.Canceled) || sum.Reason != telemetry.EndCancelled {
		t.Errorf("cancelled PlayGame = %q, %v", sum.Reason, err)
	}
}
