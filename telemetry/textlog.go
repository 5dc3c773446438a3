package telemetry

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// RunHeader describes a run in the text log's first line.
type RunHeader struct {
	Start        time.Time
	RunID        string
	Width        int
	Height       int
	UnitsPerKind int
	TotalUnits   int
	DelayMS      int
	Seed         string // Fixed seed or "random"
	Kinds        []string
	Labels       []string // CSV header labels, one per kind
	FastForward  bool
	NumGames     int
	Blocks       string
}

// TextLog is the human-readable log: a settings line, a STEP header, one
// comma-separated count row per snapshot and a game_end line per game.
// Lines are mirrored to stdout unless quiet.
type TextLog struct {
	w      io.Writer
	f      *os.File
	stdout io.Writer
}

// OpenTextLog appends to the log at path and writes the run header.
// An empty path disables the file; lines still go to stdout unless quiet.
func OpenTextLog(path string, quiet bool, h RunHeader) (*TextLog, error) {
	t := &TextLog{}
	if !quiet {
		t.stdout = os.Stdout
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		t.f = f
		t.w = f
	}
	if err := t.writeHeader(h); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// NewTextLog writes to w only. Used by tests and the batch runner.
func NewTextLog(w io.Writer, h RunHeader) (*TextLog, error) {
	t := &TextLog{w: w}
	if err := t.writeHeader(h); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TextLog) writeHeader(h RunHeader) error {
	ff := "off"
	if h.FastForward {
		ff = "on"
	}
	settings := fmt.Sprintf("start=%s | size=%dx%d | units_per_kind=%d | total_units=%d | "+
		"delay_ms=%d | seed=%s | kinds=%s | fast_forward=%s | num_games=%d | blocks=%s | run=%s",
		h.Start.Format("2006-01-02 15:04:05.000000"), h.Width, h.Height, h.UnitsPerKind, h.TotalUnits,
		h.DelayMS, h.Seed, strings.Join(h.Kinds, ","), ff, h.NumGames, h.Blocks, h.RunID)
	if err := t.line(settings); err != nil {
		return err
	}
	return t.line("STEP," + strings.Join(h.Labels, ","))
}

func (t *TextLog) line(s string) error {
	if t.stdout != nil {
		fmt.Fprintln(t.stdout, s)
	}
	if t.w == nil {
		return nil
	}
	if _, err := fmt.Fprintln(t.w, s); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return nil
}

// WriteCounts writes "step,count,count,...".
func (t *TextLog) WriteCounts(s CountSnapshot) error {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.Step))
	for _, n := range s.Counts {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(n))
	}
	return t.line(b.String())
}

// WriteSummary writes the game_end line.
func (t *TextLog) WriteSummary(s GameSummary) error {
	at := s.EndedAt
	if at.IsZero() {
		at = time.Now()
	}
	msg := fmt.Sprintf("game_end at %s; elapsed=%.3fs; steps=%d",
		at.Format("2006-01-02 15:04:05.000000"), s.ElapsedSeconds, s.TotalSteps)
	if s.Reason != "" && s.Reason != EndWinner {
		msg += "; reason=" + s.Reason
	}
	return t.line(msg)
}

// Close closes the log file, if any.
func (t *TextLog) Close() error {
	if t == nil || t.f == nil {
		return nil
	}
	return t.f.Close()
}
