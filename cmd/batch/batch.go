package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/game"
	"github.com/pthm-cable/rpsarena/telemetry"
)

// job is one game to play.
type job struct {
	game int
	seed int64
}

// gameRecord buffers one game's telemetry until the collector writes it.
type gameRecord struct {
	counts  []telemetry.CountSnapshot
	summary telemetry.GameSummary
	err     error
}

func (r *gameRecord) WriteCounts(s telemetry.CountSnapshot) error {
	r.counts = append(r.counts, s)
	return nil
}

func (r *gameRecord) WriteSummary(s telemetry.GameSummary) error {
	r.summary = s
	return nil
}

// batch plays games on a worker pool. Workers own their game and emitter;
// a single collector writes every record, so the sinks need no locking.
type batch struct {
	cfg    *config.Config
	runID  string
	output *telemetry.OutputManager
	stats  *telemetry.SessionStats
}

// run plays games numbered 1..n with seeds seed..seed+n-1 and returns the
// number of games collected. progress is called from the collector after
// each game.
func (b *batch) run(ctx context.Context, n int, seed int64, workers int, progress func(done int)) (int, error) {
	jobs := make(chan job)
	results := make(chan *gameRecord, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- b.play(ctx, j)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- job{game: i + 1, seed: seed + int64(i)}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	var firstErr error
	for rec := range results {
		if rec.err != nil {
			if firstErr == nil {
				firstErr = rec.err
			}
			continue
		}
		b.collect(rec)
		done++
		if progress != nil {
			progress(done)
		}
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return done, firstErr
}

// play runs one game to completion.
func (b *batch) play(ctx context.Context, j job) *gameRecord {
	rec := &gameRecord{}
	emitter := telemetry.NewEmitter(b.runID, b.cfg.Telemetry.SnapshotEvery, rec)
	if _, err := game.PlayGame(ctx, b.cfg, j.game, j.seed, game.SessionOptions{Emitter: emitter}); err != nil {
		rec.err = fmt.Errorf("game %d (seed %d): %w", j.game, j.seed, err)
	}
	return rec
}

// collect writes a finished game's records.
func (b *batch) collect(rec *gameRecord) {
	for _, s := range rec.counts {
		if err := b.output.WriteCounts(s); err != nil {
			slog.Error("failed to write counts", "game", s.Game, "error", err)
		}
	}
	if err := b.output.WriteSummary(rec.summary); err != nil {
		slog.Error("failed to write game summary", "game", rec.summary.Game, "error", err)
	}
	b.stats.WriteSummary(rec.summary)
}
