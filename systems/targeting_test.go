package systems

import (
	"testing"

	"github.com/pthm-cable/rpsarena/components"
)

const (
	rock     components.Kind = 0
	paper    components.Kind = 1
	scissors components.Kind = 2
)

// rps returns rock beats scissors, paper beats rock, scissors beats paper.
func rps(t *testing.T) *Domination {
	t.Helper()
	dom, err := NewDomination([]components.Kind{scissors, rock, paper})
	if err != nil {
		t.Fatal(err)
	}
	return dom
}

func selectFor(t *testing.T, agents []AgentState, i int) Decision {
	t.Helper()
	grid := NewKindGrid(200, 200, 20, 3)
	grid.Rebuild(agents)
	return SelectTarget(agents, i, rps(t), grid)
}

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name       string
		agents     []AgentState
		wantAction Action
		wantTarget int32
		wantDX     float32
		wantDY     float32
	}{
		{
			name: "symmetric tie chases",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: scissors, X: 130, Y: 100}, // prey east
				{ID: 2, Kind: paper, X: 70, Y: 100},     // predator west, same distance
			},
			wantAction: ActionChase, wantTarget: 1, wantDX: 1, wantDY: 0,
		},
		{
			name: "closer predator flees",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: scissors, X: 100, Y: 150},
				{ID: 2, Kind: paper, X: 100, Y: 80},
			},
			wantAction: ActionFlee, wantTarget: 2, wantDX: 0, wantDY: 1,
		},
		{
			name: "closer prey chases",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: scissors, X: 90, Y: 100},
				{ID: 2, Kind: paper, X: 150, Y: 100},
			},
			wantAction: ActionChase, wantTarget: 1, wantDX: -1, wantDY: 0,
		},
		{
			name: "only predator flees",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: paper, X: 100, Y: 190},
			},
			wantAction: ActionFlee, wantTarget: 1, wantDX: 0, wantDY: -1,
		},
		{
			name: "only prey chases",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: scissors, X: 10, Y: 100},
			},
			wantAction: ActionChase, wantTarget: 1, wantDX: -1, wantDY: 0,
		},
		{
			name: "own kind only holds",
			agents: []AgentState{
				{ID: 0, Kind: rock, X: 100, Y: 100},
				{ID: 1, Kind: rock, X: 120, Y: 100},
			},
			wantAction: ActionHold, wantTarget: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := selectFor(t, tt.agents, 0)
			if d.Action != tt.wantAction || d.Target != tt.wantTarget {
				t.Fatalf("SelectTarget = %v target %d, want %v target %d", d.Action, d.Target, tt.wantAction, tt.wantTarget)
			}
			if d.DX != tt.wantDX || d.DY != tt.wantDY {
				t.Errorf("direction = (%v, %v), want (%v, %v)", d.DX, d.DY, tt.wantDX, tt.wantDY)
			}
		})
	}
}

func TestSelectTargetsDeterministic(t *testing.T) {
	agents := []AgentState{
		{ID: 0, Kind: rock, X: 40, Y: 40},
		{ID: 1, Kind: paper, X: 80, Y: 40},
		{ID: 2, Kind: scissors, X: 60, Y: 90},
		{ID: 3, Kind: rock, X: 150, Y: 150},
	}
	dom := rps(t)
	grid := NewKindGrid(200, 200, 20, 3)
	grid.Rebuild(agents)
	first := SelectTargets(nil, agents, dom, grid)
	second := SelectTargets(nil, agents, dom, grid)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("decision %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDomination(t *testing.T) {
	tests := []struct {
		name    string
		beats   []components.Kind
		wantErr bool
	}{
		{"rps", []components.Kind{2, 0, 1}, false},
		{"five cycle", []components.Kind{1, 2, 3, 4, 0}, false},
		{"self loop", []components.Kind{0, 2, 1}, true},
		{"not injective", []components.Kind{1, 2, 1}, true},
		{"out of range", []components.Kind{1, 5, 0}, true},
		{"single kind", []components.Kind{0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom, err := NewDomination(tt.beats)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDomination error: %v", err)
			}
			for k := 0; k < dom.Len(); k++ {
				kind := components.Kind(k)
				if dom.Beats(kind) == kind {
					t.Errorf("kind %d beats itself", k)
				}
				if dom.LosesTo(dom.Beats(kind)) != kind {
					t.Errorf("LosesTo(Beats(%d)) = %d", k, dom.LosesTo(dom.Beats(kind)))
				}
				if dom.Beats(dom.LosesTo(kind)) != kind {
					t.Errorf("Beats(LosesTo(%d)) = %d", k, dom.Beats(dom.LosesTo(kind)))
				}
				if !dom.Defeats(kind, dom.Beats(kind)) {
					t.Errorf("Defeats(%d, Beats(%d)) = false", k, k)
				}
			}
		})
	}
}
