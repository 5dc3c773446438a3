package systems

import (
	"github.com/pthm-cable/rpsarena/components"
)

// KindGrid is a uniform cell grid over the bounded arena with one bucket
// list per kind, so nearest-of-kind queries only visit agents of that kind.
// Cells hold snapshot indices.
type KindGrid struct {
	cellSize float32
	cols     int
	rows     int
	kinds    int
	cells    [][]int32 // kind*cols*rows + row*cols + col
	counts   []int     // agents per kind
}

// NewKindGrid creates a grid covering width x height for the given number of kinds.
func NewKindGrid(width, height, cellSize float32, kinds int) *KindGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, kinds*cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 4)
	}

	return &KindGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		kinds:    kinds,
		cells:    cells,
		counts:   make([]int, kinds),
	}
}

// Clear removes all agents from the grid.
func (g *KindGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range g.counts {
		g.counts[i] = 0
	}
}

// Insert adds snapshot index idx of the given kind at the given position.
func (g *KindGrid) Insert(idx int32, kind components.Kind, x, y float32) {
	col, row := g.cell(x, y)
	g.cells[g.bucket(kind, col, row)] = append(g.cells[g.bucket(kind, col, row)], idx)
	g.counts[kind]++
}

// Rebuild clears the grid and inserts every agent of the snapshot.
func (g *KindGrid) Rebuild(agents []AgentState) {
	g.Clear()
	for i := range agents {
		g.Insert(int32(i), agents[i].Kind, agents[i].X, agents[i].Y)
	}
}

// Nearest returns the snapshot index of the agent of the given kind closest
// to (x, y). Equal distances resolve to the lowest ID.
func (g *KindGrid) Nearest(agents []AgentState, kind components.Kind, x, y float32) (int32, float32, bool) {
	if g.counts[kind] == 0 {
		return -1, 0, false
	}

	cc, cr := g.cell(x, y)
	best := int32(-1)
	var bestDistSq float32
	maxRing := g.cols
	if g.rows > maxRing {
		maxRing = g.rows
	}

	for ring := 0; ring <= maxRing; ring++ {
		// Cells on this ring are at least (ring-1) cells away from the query.
		if best >= 0 && ring > 0 {
			gap := float32(ring-1) * g.cellSize
			if gap*gap > bestDistSq {
				break
			}
		}
		for dr := -ring; dr <= ring; dr++ {
			row := cr + dr
			if row < 0 || row >= g.rows {
				continue
			}
			step := 1
			if dr != -ring && dr != ring {
				step = 2 * ring // only the left and right edges
			}
			for dc := -ring; dc <= ring; dc += step {
				col := cc + dc
				if col >= 0 && col < g.cols {
					for _, idx := range g.cells[g.bucket(kind, col, row)] {
						a := &agents[idx]
						d := distanceSq(x, y, a.X, a.Y)
						if best < 0 || d < bestDistSq || (d == bestDistSq && a.ID < agents[best].ID) {
							best, bestDistSq = idx, d
						}
					}
				}
			}
		}
	}
	return best, bestDistSq, best >= 0
}

// LowestWithin returns the snapshot index of the lowest-ID agent of the given
// kind whose centre is within radius of (x, y).
func (g *KindGrid) LowestWithin(agents []AgentState, kind components.Kind, x, y, radius float32) (int32, bool) {
	if g.counts[kind] == 0 {
		return -1, false
	}
	cellRadius := int(radius/g.cellSize) + 1
	cc, cr := g.cell(x, y)
	radiusSq := radius * radius
	best := int32(-1)

	for row := cr - cellRadius; row <= cr+cellRadius; row++ {
		if row < 0 || row >= g.rows {
			continue
		}
		for col := cc - cellRadius; col <= cc+cellRadius; col++ {
			if col < 0 || col >= g.cols {
				continue
			}
			for _, idx := range g.cells[g.bucket(kind, col, row)] {
				a := &agents[idx]
				if distanceSq(x, y, a.X, a.Y) <= radiusSq && (best < 0 || a.ID < agents[best].ID) {
					best = idx
				}
			}
		}
	}
	return best, best >= 0
}

func (g *KindGrid) bucket(kind components.Kind, col, row int) int {
	return (int(kind)*g.rows+row)*g.cols + col
}

// cell returns the clamped cell coordinates for a position.
func (g *KindGrid) cell(x, y float32) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
