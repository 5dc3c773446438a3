package telemetry

import (
	"log/slog"
	"time"
)

// End reasons recorded in GameSummary.Reason.
const (
	EndWinner    = "winner"     // One kind left
	EndStalled   = "stalled"    // No remaining kind can convert another
	EndStepLimit = "step_limit" // session.max_steps reached
	EndCancelled = "cancelled"  // Driver stopped mid-game
)

// CountSnapshot is the per-kind population at a step.
type CountSnapshot struct {
	RunID  string
	Game   int
	Seed   int64
	Step   int
	Counts []int // Indexed by kind
}

// CountRow is one (step, kind) pair of a snapshot in long CSV form.
type CountRow struct {
	RunID string `csv:"run_id"`
	Game  int    `csv:"game"`
	Seed  int64  `csv:"seed"`
	Step  int    `csv:"step"`
	Kind  string `csv:"kind"`
	Count int    `csv:"count"`
}

// Rows expands the snapshot into one row per kind.
func (s CountSnapshot) Rows(kinds []string) []CountRow {
	rows := make([]CountRow, len(s.Counts))
	for k, n := range s.Counts {
		name := ""
		if k < len(kinds) {
			name = kinds[k]
		}
		rows[k] = CountRow{RunID: s.RunID, Game: s.Game, Seed: s.Seed, Step: s.Step, Kind: name, Count: n}
	}
	return rows
}

// GameSummary is the end-of-game record.
type GameSummary struct {
	RunID          string    `csv:"run_id"`
	Game           int       `csv:"game"`
	Seed           int64     `csv:"seed"`
	ElapsedSeconds float64   `csv:"elapsed_seconds"`
	TotalSteps     int       `csv:"total_steps"`
	FinalKind      string    `csv:"final_kind"` // "" unless Reason is EndWinner
	Reason         string    `csv:"reason"`
	EndedAt        time.Time `csv:"-"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GameSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("game", s.Game),
		slog.Int64("seed", s.Seed),
		slog.Float64("elapsed_seconds", s.ElapsedSeconds),
		slog.Int("total_steps", s.TotalSteps),
		slog.String("final_kind", s.FinalKind),
		slog.String("reason", s.Reason),
	)
}
