package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", nil)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager accepts writes.
	if err := om.WriteCounts(CountSnapshot{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	kinds := []string{"rock", "paper", "scissors"}
	om, err := NewOutputManager(dir, kinds)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	snaps := []CountSnapshot{
		{RunID: "r1", Game: 1, Seed: 5, Step: 10, Counts: []int{4, 3, 3}},
		{RunID: "r1", Game: 1, Seed: 5, Step: 20, Counts: []int{6, 0, 4}},
	}
	for _, s := range snaps {
		if err := om.WriteCounts(s); err != nil {
			t.Fatalf("WriteCounts error: %v", err)
		}
	}
	if err := om.WriteSummary(GameSummary{RunID: "r1", Game: 1, Seed: 5, TotalSteps: 31, ElapsedSeconds: 1.5, FinalKind: "rock", Reason: EndWinner}); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "counts.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var rows []CountRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("reading counts.csv: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d count rows, want 6", len(rows))
	}
	if rows[4] != (CountRow{RunID: "r1", Game: 1, Seed: 5, Step: 20, Kind: "paper", Count: 0}) {
		t.Errorf("row 4 = %+v", rows[4])
	}
	if n := strings.Count(string(data), "run_id"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	data, err = os.ReadFile(filepath.Join(dir, "games.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var games []GameSummary
	if err := gocsv.UnmarshalBytes(data, &games); err != nil {
		t.Fatalf("reading games.csv: %v", err)
	}
	if len(games) != 1 || games[0].TotalSteps != 31 || games[0].FinalKind != "rock" {
		t.Errorf("games = %+v", games)
	}
}

func TestTextLogFormat(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tl, err := NewTextLog(&buf, RunHeader{
		Start: start, RunID: "abc", Width: 800, Height: 600, UnitsPerKind: 50, TotalUnits: 150,
		DelayMS: 30, Seed: "42", Kinds: []string{"rock", "paper", "scissors"},
		Labels: []string{"R", "P", "S"}, FastForward: true, NumGames: 2, Blocks: "random(3)",
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = tl.WriteCounts(CountSnapshot{Step: 17, Counts: []int{60, 40, 50}})
	_ = tl.WriteSummary(GameSummary{TotalSteps: 900, ElapsedSeconds: 12.3456, Reason: EndWinner, EndedAt: start.Add(time.Minute)})
	_ = tl.WriteSummary(GameSummary{TotalSteps: 50, ElapsedSeconds: 1, Reason: EndStepLimit, EndedAt: start})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"start=2024-03-01 12:00:00.000000 | size=800x600 | units_per_kind=50 | total_units=150 | delay_ms=30 | seed=42 | kinds=rock,paper,scissors | fast_forward=on | num_games=2 | blocks=random(3) | run=abc",
		"STEP,R,P,S",
		"17,60,40,50",
		"game_end at 2024-03-01 12:01:00.000000; elapsed=12.346s; steps=900",
		"game_end at 2024-03-01 12:00:00.000000; elapsed=1.000s; steps=50; reason=step_limit",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestOpenTextLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")
	for i := 0; i < 2; i++ {
		tl, err := OpenTextLog(path, true, RunHeader{Labels: []string{"a", "b", "c"}})
		if err != nil {
			t.Fatal(err)
		}
		if err := tl.Close(); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "STEP,a,b,c"); n != 2 {
		t.Errorf("header appears %d times, want 2", n)
	}
}
