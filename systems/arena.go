// Package systems implements the arena simulation core: geometry, placement,
// target selection, motion and contact resolution.
package systems

import (
	"fmt"
	"math/rand"
)

// MaxPlacementAttempts bounds RandomFreePoint sampling.
const MaxPlacementAttempts = 10000

// Rect is an axis-aligned rectangle. X, Y is the top-left corner.
type Rect struct {
	X, Y, W, H float32
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float32) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Contains reports whether the point lies in the closed rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Area returns the rectangle's area.
func (r Rect) Area() float32 {
	return r.W * r.H
}

// IntersectsSegment reports whether the segment (x0,y0)-(x1,y1) touches the
// closed rectangle (Liang–Barsky clipping).
func (r Rect) IntersectsSegment(x0, y0, x1, y1 float32) bool {
	dx := x1 - x0
	dy := y1 - y0
	p := [4]float32{-dx, dx, -dy, dy}
	q := [4]float32{x0 - r.X, r.X + r.W - x0, y0 - r.Y, r.Y + r.H - y0}

	t0, t1 := float32(0), float32(1)
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return t0 <= t1
}

// PlacementError reports that no obstacle-free position could be found.
type PlacementError struct {
	Attempts int
	Placed   int // Agents placed before the failure
	Total    int
}

func (e *PlacementError) Error() string {
	if e.Total > 0 {
		return fmt.Sprintf("placement: no free position after %d attempts (placed %d of %d agents); reduce obstacle coverage",
			e.Attempts, e.Placed, e.Total)
	}
	return fmt.Sprintf("placement: no free position after %d attempts; reduce obstacle coverage", e.Attempts)
}

// Arena is the bounded playfield and its static obstacles. Agent centres are
// kept one body radius away from the walls and from every obstacle.
type Arena struct {
	Width, Height float32
	Radius        float32
	Obstacles     []Rect

	expanded []Rect // Obstacles grown by Radius
}

// NewArena creates an arena. The obstacle slice is copied.
func NewArena(width, height, radius float32, obstacles []Rect) *Arena {
	a := &Arena{
		Width:     width,
		Height:    height,
		Radius:    radius,
		Obstacles: append([]Rect(nil), obstacles...),
		expanded:  make([]Rect, len(obstacles)),
	}
	for i, o := range obstacles {
		a.expanded[i] = o.Expand(radius)
	}
	return a
}

// Clamp projects a point into the region agent centres may occupy.
func (a *Arena) Clamp(x, y float32) (float32, float32) {
	return clampFloat(x, a.Radius, a.Width-a.Radius), clampFloat(y, a.Radius, a.Height-a.Radius)
}

// InBounds reports whether an agent centred at the point stays inside the arena.
func (a *Arena) InBounds(x, y float32) bool {
	return x >= a.Radius && x <= a.Width-a.Radius && y >= a.Radius && y <= a.Height-a.Radius
}

// Blocked reports whether an agent centred at the point would overlap an obstacle.
func (a *Arena) Blocked(x, y float32) bool {
	for _, r := range a.expanded {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// InsideObstacle reports whether the point lies inside a raw obstacle rectangle.
func (a *Arena) InsideObstacle(x, y float32) bool {
	for _, r := range a.Obstacles {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// SegmentBlocked reports whether moving an agent along the segment would
// touch an obstacle at any point.
func (a *Arena) SegmentBlocked(x0, y0, x1, y1 float32) bool {
	for _, r := range a.expanded {
		if r.IntersectsSegment(x0, y0, x1, y1) {
			return true
		}
	}
	return false
}

// randomPoint samples uniformly from the clamped region.
func (a *Arena) randomPoint(rng *rand.Rand) (float32, float32) {
	x := a.Radius + rng.Float32()*(a.Width-2*a.Radius)
	y := a.Radius + rng.Float32()*(a.Height-2*a.Radius)
	return x, y
}

// RandomFreePoint samples uniformly until an obstacle-free point is found.
func (a *Arena) RandomFreePoint(rng *rand.Rand) (float32, float32, error) {
	for i := 0; i < MaxPlacementAttempts; i++ {
		x, y := a.randomPoint(rng)
		if !a.Blocked(x, y) {
			return x, y, nil
		}
	}
	return 0, 0, &PlacementError{Attempts: MaxPlacementAttempts}
}
