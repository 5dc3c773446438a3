package components

// Position represents an agent's arena position (centre of its body).
type Position struct {
	X, Y float32
}

// Velocity represents the displacement applied in the last tick.
type Velocity struct {
	X, Y float32
}
