package systems

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRectIntersectsSegment(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 10, H: 10}
	tests := []struct {
		name           string
		x0, y0, x1, y1 float32
		want           bool
	}{
		{"fully outside left", 0, 0, 5, 5, false},
		{"crosses horizontally", 0, 15, 30, 15, true},
		{"touches corner", 5, 15, 15, 5, true},
		{"passes diagonal corner miss", 0, 9, 9, 0, false},
		{"starts inside", 15, 15, 40, 40, true},
		{"touches edge", 0, 10, 30, 10, true},
		{"parallel outside", 0, 25, 30, 25, false},
		{"point outside", 5, 5, 5, 5, false},
		{"point inside", 12, 12, 12, 12, true},
		{"ends before rect", 0, 15, 9.9, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IntersectsSegment(tt.x0, tt.y0, tt.x1, tt.y1); got != tt.want {
				t.Errorf("IntersectsSegment(%v,%v,%v,%v) = %v, want %v", tt.x0, tt.y0, tt.x1, tt.y1, got, tt.want)
			}
		})
	}
}

func TestArenaClamp(t *testing.T) {
	a := NewArena(100, 80, 10, nil)
	tests := []struct {
		x, y, wantX, wantY float32
	}{
		{50, 40, 50, 40},
		{-5, 40, 10, 40},
		{200, 200, 90, 70},
		{5, 75, 10, 70},
	}
	for _, tt := range tests {
		x, y := a.Clamp(tt.x, tt.y)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Clamp(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
		if !a.InBounds(x, y) {
			t.Errorf("Clamp result (%v, %v) not in bounds", x, y)
		}
	}
}

func TestArenaBlockedUsesRadius(t *testing.T) {
	a := NewArena(200, 200, 5, []Rect{{X: 50, Y: 50, W: 20, H: 20}})
	if !a.Blocked(60, 60) {
		t.Error("centre of obstacle should be blocked")
	}
	if !a.Blocked(47, 60) {
		t.Error("point within radius of obstacle edge should be blocked")
	}
	if a.Blocked(44, 60) {
		t.Error("point beyond radius should be free")
	}
	if a.InsideObstacle(47, 60) {
		t.Error("point outside raw rect reported inside obstacle")
	}
}

func TestRandomFreePoint(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewArena(200, 200, 5, []Rect{{X: 0, Y: 0, W: 100, H: 200}})
	for i := 0; i < 200; i++ {
		x, y, err := a.RandomFreePoint(rng)
		if err != nil {
			t.Fatalf("RandomFreePoint error: %v", err)
		}
		if a.Blocked(x, y) || !a.InBounds(x, y) {
			t.Fatalf("RandomFreePoint returned invalid point (%v, %v)", x, y)
		}
	}
}

func TestRandomFreePointFullyBlocked(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewArena(100, 100, 5, []Rect{{X: 0, Y: 0, W: 100, H: 100}})
	_, _, err := a.RandomFreePoint(rng)
	var perr *PlacementError
	if !errors.As(err, &perr) {
		t.Fatalf("RandomFreePoint() = %v, want *PlacementError", err)
	}
	if perr.Attempts != MaxPlacementAttempts {
		t.Errorf("Attempts = %d, want %d", perr.Attempts, MaxPlacementAttempts)
	}
}

func TestPlaceAgents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := NewArena(400, 400, 10, []Rect{{X: 100, Y: 100, W: 80, H: 60}, {X: 250, Y: 200, W: 40, H: 120}})
	counts := []int{10, 0, 5}
	agents, err := PlaceAgents(rng, a, counts, 25)
	if err != nil {
		t.Fatalf("PlaceAgents error: %v", err)
	}
	if len(agents) != 15 {
		t.Fatalf("got %d agents, want 15", len(agents))
	}
	perKind := make([]int, 3)
	for i, ag := range agents {
		if ag.ID != int32(i) {
			t.Errorf("agent %d has ID %d", i, ag.ID)
		}
		if a.Blocked(ag.X, ag.Y) || !a.InBounds(ag.X, ag.Y) {
			t.Errorf("agent %d placed at invalid (%v, %v)", i, ag.X, ag.Y)
		}
		perKind[ag.Kind]++
	}
	for k, n := range counts {
		if perKind[k] != n {
			t.Errorf("kind %d: got %d agents, want %d", k, perKind[k], n)
		}
	}
}

func TestPlaceAgentsReportsProgress(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := NewArena(100, 100, 5, []Rect{{X: 0, Y: 0, W: 100, H: 100}})
	_, err := PlaceAgents(rng, a, []int{2, 2, 2}, 10)
	var perr *PlacementError
	if !errors.As(err, &perr) {
		t.Fatalf("PlaceAgents() = %v, want *PlacementError", err)
	}
	if perr.Placed != 0 || perr.Total != 6 {
		t.Errorf("Placed/Total = %d/%d, want 0/6", perr.Placed, perr.Total)
	}
}

func TestGenerateObstacles(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		blocks := GenerateObstacles(rng, 800, 600, 6, 14, 0.2)
		var area float32
		for _, b := range blocks {
			area += b.Area()
			if b.W < 800*0.08-1 || b.W > 800*0.40 || b.H < 600*0.08-1 || b.H > 600*0.40 {
				t.Errorf("seed %d: block size %vx%v out of range", seed, b.W, b.H)
			}
			if b.X < 16 || b.Y < 16 || b.X+b.W > 800-16 || b.Y+b.H > 600-16 {
				t.Errorf("seed %d: block %+v too close to the walls", seed, b)
			}
		}
		if area > 0.2*800*600 {
			t.Errorf("seed %d: coverage %v exceeds budget", seed, area)
		}
	}

	if got := GenerateObstacles(rand.New(rand.NewSource(1)), 800, 600, 0, 14, 0.2); got != nil {
		t.Errorf("count 0 should produce no blocks, got %v", got)
	}
}

func TestGenerateObstaclesDeterministic(t *testing.T) {
	a := GenerateObstacles(rand.New(rand.NewSource(42)), 800, 800, 5, 14, 0.2)
	b := GenerateObstacles(rand.New(rand.NewSource(42)), 800, 800, 5, 14, 0.2)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("block %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
