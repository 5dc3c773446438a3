// Package components defines ECS components for the arena.
package components

// Kind indexes a kind of the domination cycle. Labels live in the config.
type Kind uint8

// Agent holds an agent's identity and current kind.
// ID is assigned at placement and never changes; Kind changes on conversion.
type Agent struct {
	ID   int32
	Kind Kind
}
