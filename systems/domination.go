package systems

import (
	"fmt"

	"github.com/pthm-cable/rpsarena/components"
)

// Domination is the beats / loses_to table, indexed by kind.
type Domination struct {
	beats   []components.Kind
	losesTo []components.Kind
}

// NewDomination builds the table from a beats mapping. The mapping must be a
// permutation without fixed points; loses_to is its inverse.
func NewDomination(beats []components.Kind) (*Domination, error) {
	n := len(beats)
	if n < 2 {
		return nil, fmt.Errorf("domination: need at least 2 kinds, got %d", n)
	}
	losesTo := make([]components.Kind, n)
	seen := make([]bool, n)
	for k, prey := range beats {
		if int(prey) >= n {
			return nil, fmt.Errorf("domination: kind %d beats unknown kind %d", k, prey)
		}
		if int(prey) == k {
			return nil, fmt.Errorf("domination: kind %d beats itself", k)
		}
		if seen[prey] {
			return nil, fmt.Errorf("domination: kind %d is beaten by more than one kind", prey)
		}
		seen[prey] = true
		losesTo[prey] = components.Kind(k)
	}
	return &Domination{beats: append([]components.Kind(nil), beats...), losesTo: losesTo}, nil
}

// Len returns the number of kinds.
func (d *Domination) Len() int { return len(d.beats) }

// Beats returns the kind k defeats.
func (d *Domination) Beats(k components.Kind) components.Kind { return d.beats[k] }

// LosesTo returns the kind that defeats k.
func (d *Domination) LosesTo(k components.Kind) components.Kind { return d.losesTo[k] }

// Defeats reports whether a defeats b.
func (d *Domination) Defeats(a, b components.Kind) bool { return d.beats[a] == b }
