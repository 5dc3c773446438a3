package telemetry

import (
	"log/slog"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SessionStats aggregates game summaries across a session. It is a Sink and
// is safe for use by several games at once.
type SessionStats struct {
	mu        sync.Mutex
	kinds     []string
	steps     []float64
	elapsed   []float64
	wins      map[string]int
	abandoned int
}

// NewSessionStats creates an empty aggregate.
func NewSessionStats(kinds []string) *SessionStats {
	return &SessionStats{kinds: kinds, wins: make(map[string]int, len(kinds))}
}

// WriteCounts is a no-op; only summaries are aggregated.
func (s *SessionStats) WriteCounts(CountSnapshot) error { return nil }

// WriteSummary records a finished game.
func (s *SessionStats) WriteSummary(g GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.Reason != EndWinner {
		s.abandoned++
		return nil
	}
	s.steps = append(s.steps, float64(g.TotalSteps))
	s.elapsed = append(s.elapsed, g.ElapsedSeconds)
	s.wins[g.FinalKind]++
	return nil
}

// SessionSummary is the aggregate over all decided games.
type SessionSummary struct {
	Games       int
	Abandoned   int
	MeanSteps   float64
	StdSteps    float64
	MedianSteps float64
	P90Steps    float64
	MeanElapsed float64
	Wins        map[string]int
	Kinds       []string
}

// Summary computes the aggregate.
func (s *SessionStats) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := SessionSummary{
		Games:     len(s.steps),
		Abandoned: s.abandoned,
		Wins:      make(map[string]int, len(s.wins)),
		Kinds:     s.kinds,
	}
	for k, n := range s.wins {
		out.Wins[k] = n
	}
	if len(s.steps) == 0 {
		return out
	}

	if len(s.steps) > 1 {
		out.MeanSteps, out.StdSteps = stat.MeanStdDev(s.steps, nil)
	} else {
		out.MeanSteps = s.steps[0]
	}
	out.MeanElapsed = stat.Mean(s.elapsed, nil)

	sorted := append([]float64(nil), s.steps...)
	sort.Float64s(sorted)
	out.MedianSteps = Percentile(sorted, 0.5)
	out.P90Steps = Percentile(sorted, 0.9)
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s SessionSummary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("games", s.Games),
		slog.Int("abandoned", s.Abandoned),
		slog.Float64("mean_steps", s.MeanSteps),
		slog.Float64("std_steps", s.StdSteps),
		slog.Float64("median_steps", s.MedianSteps),
		slog.Float64("p90_steps", s.P90Steps),
		slog.Float64("mean_elapsed_s", s.MeanElapsed),
	}
	for _, k := range s.Kinds {
		attrs = append(attrs, slog.Int("wins_"+k, s.Wins[k]))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the session summary using slog.
func (s SessionSummary) LogStats() {
	slog.Info("session", "stats", s)
}
