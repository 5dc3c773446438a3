package telemetry

import (
	"log/slog"
)

// Sink consumes snapshots and end-of-game summaries.
type Sink interface {
	WriteCounts(s CountSnapshot) error
	WriteSummary(s GameSummary) error
}

// Emitter decides when a count snapshot is due and fans records out to the
// sinks. It only reads the values it is handed.
type Emitter struct {
	every int // 0 = ticks with a conversion
	runID string
	sinks []Sink

	game int
	seed int64
}

// NewEmitter creates an emitter. every > 0 emits on every every-th step;
// every == 0 emits only on steps where a conversion happened.
func NewEmitter(runID string, every int, sinks ...Sink) *Emitter {
	return &Emitter{every: every, runID: runID, sinks: sinks}
}

// AddSink registers another sink.
func (e *Emitter) AddSink(s Sink) {
	e.sinks = append(e.sinks, s)
}

// BeginGame sets the game number and seed stamped on later records.
func (e *Emitter) BeginGame(game int, seed int64) {
	e.game = game
	e.seed = seed
}

// Due reports whether a snapshot should be emitted for the step.
func (e *Emitter) Due(step int, converted bool) bool {
	if e.every > 0 {
		return step%e.every == 0
	}
	return converted
}

// Tick emits a snapshot when one is due. It reports whether it emitted.
func (e *Emitter) Tick(step int, converted bool, counts []int) bool {
	if !e.Due(step, converted) {
		return false
	}
	snap := CountSnapshot{
		RunID:  e.runID,
		Game:   e.game,
		Seed:   e.seed,
		Step:   step,
		Counts: append([]int(nil), counts...),
	}
	for _, s := range e.sinks {
		if err := s.WriteCounts(snap); err != nil {
			slog.Error("failed to write snapshot", "step", step, "error", err)
		}
	}
	return true
}

// End emits the end-of-game summary unconditionally.
func (e *Emitter) End(summary GameSummary) {
	summary.RunID = e.runID
	summary.Game = e.game
	summary.Seed = e.seed
	for _, s := range e.sinks {
		if err := s.WriteSummary(summary); err != nil {
			slog.Error("failed to write game summary", "game", e.game, "error", err)
		}
	}
}

// LogSink writes records through slog. Snapshots are logged at debug level.
type LogSink struct {
	Kinds []string
}

func (l LogSink) WriteCounts(s CountSnapshot) error {
	attrs := make([]any, 0, 2*len(s.Counts)+4)
	attrs = append(attrs, "game", s.Game, "step", s.Step)
	for k, n := range s.Counts {
		name := "kind"
		if k < len(l.Kinds) {
			name = l.Kinds[k]
		}
		attrs = append(attrs, name, n)
	}
	slog.Debug("counts", attrs...)
	return nil
}

func (l LogSink) WriteSummary(s GameSummary) error {
	slog.Info("game ended", "summary", s)
	return nil
}
