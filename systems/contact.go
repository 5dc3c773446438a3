package systems

import (
	"github.com/pthm-cable/rpsarena/components"
)

// Conversion records one agent changing kind on contact.
type Conversion struct {
	Index  int32 // Snapshot index of the converted agent
	Winner int32 // Snapshot index of the agent it converts to
	From   components.Kind
	To     components.Kind
}

// ResolveContacts finds the agents that convert this tick. agents holds the
// post-move positions with the pre-resolution kinds, and grid must be built
// from it. An agent in contact with several winners converts to the lowest-ID
// one. Nothing is applied here.
func ResolveContacts(dst []Conversion, agents []AgentState, dom *Domination, grid *KindGrid, radius float32) []Conversion {
	dst = dst[:0]
	for i := range agents {
		b := &agents[i]
		winnerKind := dom.LosesTo(b.Kind)
		w, ok := grid.LowestWithin(agents, winnerKind, b.X, b.Y, radius)
		if !ok {
			continue
		}
		dst = append(dst, Conversion{Index: int32(i), Winner: w, From: b.Kind, To: winnerKind})
	}
	return dst
}

// ApplyConversions sets the new kinds on the snapshot and updates counts.
func ApplyConversions(agents []AgentState, conversions []Conversion, counts []int) {
	for _, c := range conversions {
		agents[c.Index].Kind = c.To
		counts[c.From]--
		counts[c.To]++
	}
}
