package systems

// Action is the movement mode chosen for an agent this tick.
type Action uint8

const (
	ActionHold Action = iota
	ActionChase
	ActionFlee
)

func (a Action) String() string {
	switch a {
	case ActionChase:
		return "chase"
	case ActionFlee:
		return "flee"
	default:
		return "hold"
	}
}

// Decision is the target selector's output for one agent.
type Decision struct {
	Action Action
	Target int32   // Snapshot index of the prey or predator, -1 when holding
	DX, DY float32 // Unit direction, zero when holding
}

// SelectTarget decides whether agents[i] chases its nearest prey or flees its
// nearest predator. Fleeing requires the predator to be strictly closer, so
// equal distances chase. The grid must hold the same snapshot.
func SelectTarget(agents []AgentState, i int, dom *Domination, grid *KindGrid) Decision {
	self := &agents[i]
	prey, preyDist, hasPrey := grid.Nearest(agents, dom.Beats(self.Kind), self.X, self.Y)
	pred, predDist, hasPred := grid.Nearest(agents, dom.LosesTo(self.Kind), self.X, self.Y)

	switch {
	case hasPred && (!hasPrey || predDist < preyDist):
		p := &agents[pred]
		dx, dy := normalize(self.X-p.X, self.Y-p.Y)
		return Decision{Action: ActionFlee, Target: pred, DX: dx, DY: dy}
	case hasPrey:
		p := &agents[prey]
		dx, dy := normalize(p.X-self.X, p.Y-self.Y)
		return Decision{Action: ActionChase, Target: prey, DX: dx, DY: dy}
	default:
		return Decision{Action: ActionHold, Target: -1}
	}
}

// SelectTargets runs SelectTarget for every agent, reusing dst.
func SelectTargets(dst []Decision, agents []AgentState, dom *Domination, grid *KindGrid) []Decision {
	dst = dst[:0]
	for i := range agents {
		dst = append(dst, SelectTarget(agents, i, dom, grid))
	}
	return dst
}
