package systems

import (
	"math/rand"

	"github.com/pthm-cable/rpsarena/components"
)

// Mover advances agents by a fixed step per tick.
type Mover struct {
	Arena  *Arena
	Speed  float32 // Distance per tick
	Jitter float32 // Maximum per-axis direction noise
}

// Move returns the position reached from (x, y) by displacement (dx, dy).
// The candidate is clamped to the arena. If the straight move would touch an
// obstacle, moving along X only and then along Y only are tried before
// holding position. A slide that the walls reduce to nothing is skipped.
func (a *Arena) Move(x, y, dx, dy float32) (float32, float32) {
	nx, ny := a.Clamp(x+dx, y+dy)
	if !a.SegmentBlocked(x, y, nx, ny) {
		return nx, ny
	}
	if dx != 0 {
		sx, sy := a.Clamp(x+dx, y)
		if sx != x && !a.SegmentBlocked(x, y, sx, sy) {
			return sx, sy
		}
	}
	if dy != 0 {
		sx, sy := a.Clamp(x, y+dy)
		if sy != y && !a.SegmentBlocked(x, y, sx, sy) {
			return sx, sy
		}
	}
	return x, y
}

// Integrate computes every agent's new position from the pre-tick snapshot
// and its decision. Results are written to dst (resized to len(agents)); the
// snapshot is not modified. Jitter draws from rng in agent order, only for
// agents that move.
func (m *Mover) Integrate(dst []components.Position, agents []AgentState, decisions []Decision, rng *rand.Rand) []components.Position {
	dst = dst[:0]
	for i := range agents {
		a := &agents[i]
		d := decisions[i]
		if d.Action == ActionHold || (d.DX == 0 && d.DY == 0) {
			dst = append(dst, components.Position{X: a.X, Y: a.Y})
			continue
		}

		dx, dy := d.DX, d.DY
		if m.Jitter > 0 {
			dx += (rng.Float32()*2 - 1) * m.Jitter
			dy += (rng.Float32()*2 - 1) * m.Jitter
			dx, dy = normalize(dx, dy)
		}

		nx, ny := m.Arena.Move(a.X, a.Y, dx*m.Speed, dy*m.Speed)
		dst = append(dst, components.Position{X: nx, Y: ny})
	}
	return dst
}
