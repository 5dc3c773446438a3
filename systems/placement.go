package systems

import (
	"errors"
	"math"
	"math/rand"

	"github.com/pthm-cable/rpsarena/components"
)

// AgentState is a flat copy of one agent, used as the per-tick snapshot.
// Snapshots are ordered by ID, so the slice index equals the agent ID.
type AgentState struct {
	ID   int32
	Kind components.Kind
	X, Y float32
}

// separationTries is the per-agent attempt budget for honouring the minimum
// separation before falling back to any free point.
const separationTries = 200

// GenerateObstacles creates up to count random blocks. Each side is 8% to 40%
// of the matching arena dimension, blocks keep margin+2 away from the walls,
// and the combined area never exceeds maxCoverage of the arena.
func GenerateObstacles(rng *rand.Rand, width, height float32, count int, margin float32, maxCoverage float64) []Rect {
	if count <= 0 {
		return nil
	}
	budget := maxCoverage * float64(width) * float64(height)
	var used float64
	blocks := make([]Rect, 0, count)

	for attempt := 0; len(blocks) < count && attempt < count*30; attempt++ {
		w := float32(math.Floor(float64(width * (0.08 + 0.32*rng.Float32()))))
		h := float32(math.Floor(float64(height * (0.08 + 0.32*rng.Float32()))))
		area := float64(w) * float64(h)
		if used+area > budget {
			continue
		}
		minX, maxX := margin+2, width-w-margin-2
		minY, maxY := margin+2, height-h-margin-2
		if maxX < minX || maxY < minY {
			continue
		}
		x := float32(math.Floor(float64(minX + rng.Float32()*(maxX-minX))))
		y := float32(math.Floor(float64(minY + rng.Float32()*(maxY-minY))))
		blocks = append(blocks, Rect{X: x, Y: y, W: w, H: h})
		used += area
	}
	return blocks
}

// PlaceAgents creates counts[k] agents of each kind k at uniformly random
// obstacle-free positions, IDs assigned in order. Placement prefers points at
// least minSep from every earlier agent and falls back to any free point.
func PlaceAgents(rng *rand.Rand, arena *Arena, counts []int, minSep float32) ([]AgentState, error) {
	total := 0
	for _, n := range counts {
		total += n
	}
	agents := make([]AgentState, 0, total)
	minSepSq := minSep * minSep

	for k, n := range counts {
		for i := 0; i < n; i++ {
			x, y, ok := placeSeparated(rng, arena, agents, minSepSq)
			if !ok {
				var err error
				x, y, err = arena.RandomFreePoint(rng)
				if err != nil {
					var perr *PlacementError
					if errors.As(err, &perr) {
						perr.Placed = len(agents)
						perr.Total = total
					}
					return nil, err
				}
			}
			agents = append(agents, AgentState{
				ID:   int32(len(agents)),
				Kind: components.Kind(k),
				X:    x,
				Y:    y,
			})
		}
	}
	return agents, nil
}

func placeSeparated(rng *rand.Rand, arena *Arena, placed []AgentState, minSepSq float32) (float32, float32, bool) {
	for try := 0; try < separationTries; try++ {
		x, y := arena.randomPoint(rng)
		if arena.Blocked(x, y) {
			continue
		}
		free := true
		for _, p := range placed {
			if distanceSq(x, y, p.X, p.Y) < minSepSq {
				free = false
				break
			}
		}
		if free {
			return x, y, true
		}
	}
	return 0, 0, false
}
