package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/telemetry"
)

// SessionOptions wires a session to its telemetry.
type SessionOptions struct {
	Emitter *telemetry.Emitter
	Perf    *telemetry.PerfCollector
	Output  *telemetry.OutputManager // Receives perf windows; may be nil
	Now     func() time.Time
}

// Session drives consecutive games. Each new game uses the previous seed+1.
type Session struct {
	cfg       *config.Config
	opts      SessionOptions
	obstacles []Obstacle // Fixed obstacles; nil when generated per game
	fixed     bool

	baseSeed int64
	seed     int64
	played   int
	game     *Game
}

// NewSession resolves the base seed and builds the first game. A zero
// session.seed picks a random seed in [1, 1e6].
func NewSession(cfg *config.Config, opts SessionOptions) (*Session, error) {
	seed := cfg.Session.Seed
	if seed == 0 {
		seed = rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(1_000_000) + 1
	}

	return newSession(cfg, opts, seed, 0)
}

// newSession builds a session whose next game is number played+1.
func newSession(cfg *config.Config, opts SessionOptions, seed int64, played int) (*Session, error) {
	s := &Session{cfg: cfg, opts: opts, baseSeed: seed, seed: seed, played: played}
	if !cfg.RandomObstacles() {
		s.obstacles = ResolveObstacles(cfg, nil)
		s.fixed = true
	}
	if err := s.newGame(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) newGame() error {
	opts := []Option{WithEmitter(s.opts.Emitter), WithPerf(s.opts.Perf)}
	if s.fixed {
		opts = append(opts, WithObstacles(s.obstacles))
	}
	if s.opts.Now != nil {
		opts = append(opts, WithClock(s.opts.Now))
	}
	g, err := NewGame(s.cfg, s.seed, opts...)
	if err != nil {
		return err
	}
	s.game = g
	if s.opts.Emitter != nil {
		s.opts.Emitter.BeginGame(s.played+1, s.seed)
	}
	slog.Info("game started", "game", s.played+1, "seed", s.seed, "agents", g.state.Population, "obstacles", len(g.obstacles))
	if g.Over() && s.opts.Emitter != nil {
		s.opts.Emitter.End(g.Summary())
	}
	return nil
}

// Step runs one tick of the current game and abandons it when it has
// stalled or hit session.max_steps.
func (s *Session) Step() StepResult {
	res := s.game.Step()
	if perf := s.opts.Perf; perf != nil && perf.Due(s.game.state.Step) {
		stats := perf.Stats()
		stats.LogStats()
		if err := s.opts.Output.WritePerf(stats, s.game.state.Step); err != nil {
			slog.Error("failed to write perf stats", "error", err)
		}
	}
	if res.Ended {
		return res
	}

	switch {
	case s.game.Stalled():
		s.game.Abandon(telemetry.EndStalled)
	case s.cfg.Session.MaxSteps > 0 && s.game.state.Step >= s.cfg.Session.MaxSteps:
		s.game.Abandon(telemetry.EndStepLimit)
	}
	res.Ended = s.game.Over()
	return res
}

// Advance finishes the current game and starts the next one. It reports
// false once session.num_games games have been played.
func (s *Session) Advance() (bool, error) {
	if !s.game.Over() {
		s.game.Abandon(telemetry.EndCancelled)
	}
	s.played++
	if s.Done() {
		return false, nil
	}
	s.seed++
	if err := s.newGame(); err != nil {
		return false, err
	}
	return true, nil
}

// Done reports whether the configured number of games has been played.
func (s *Session) Done() bool {
	return s.cfg.Session.NumGames > 0 && s.played >= s.cfg.Session.NumGames
}

// RunHeadless plays games back to back without delays until the session is
// done or ctx is cancelled. Cancellation is checked between ticks; the
// interrupted game is abandoned and ctx.Err() returned.
func (s *Session) RunHeadless(ctx context.Context) error {
	for {
		for !s.game.Over() {
			if err := ctx.Err(); err != nil {
				s.game.Abandon(telemetry.EndCancelled)
				return err
			}
			s.Step()
		}
		more, err := s.Advance()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// PlayGame runs game number n with the given seed to completion under the
// session's stall and step-limit rules. Calls share nothing but cfg, so
// games may be played concurrently when each call has its own opts.
func PlayGame(ctx context.Context, cfg *config.Config, n int, seed int64, opts SessionOptions) (telemetry.GameSummary, error) {
	s, err := newSession(cfg, opts, seed, n-1)
	if err != nil {
		return telemetry.GameSummary{}, err
	}
	for !s.game.Over() {
		if err := ctx.Err(); err != nil {
			s.game.Abandon(telemetry.EndCancelled)
			return s.game.Summary(), err
		}
		s.Step()
	}
	return s.game.Summary(), nil
}

// Game returns the current game.
func (s *Session) Game() *Game { return s.game }

// Seed returns the current game's seed.
func (s *Session) Seed() int64 { return s.seed }

// BaseSeed returns the first game's seed.
func (s *Session) BaseSeed() int64 { return s.baseSeed }

// GamesPlayed returns the number of finished games.
func (s *Session) GamesPlayed() int { return s.played }
