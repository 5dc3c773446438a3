// Package game runs arena games: the per-tick pipeline over the ark world,
// the game state machine, the multi-game session and the windowed app.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rpsarena/components"
	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/systems"
	"github.com/pthm-cable/rpsarena/telemetry"
)

// Obstacle is a static block and its display colour ("" = contrast colour).
type Obstacle struct {
	systems.Rect
	Color string
}

// StepResult describes what one tick did.
type StepResult struct {
	Converted int  // Conversions applied this tick
	Emitted   bool // A count snapshot was emitted
	Ended     bool // The game is over after this tick
}

type gameOptions struct {
	emitter   *telemetry.Emitter
	perf      *telemetry.PerfCollector
	obstacles []Obstacle
	fixedObst bool
	agents    []systems.AgentState
	now       func() time.Time
}

// Option configures a Game.
type Option func(*gameOptions)

// WithEmitter routes snapshots and the end-of-game summary to e.
func WithEmitter(e *telemetry.Emitter) Option {
	return func(o *gameOptions) { o.emitter = e }
}

// WithPerf times each tick phase with p.
func WithPerf(p *telemetry.PerfCollector) Option {
	return func(o *gameOptions) { o.perf = p }
}

// WithObstacles uses the given obstacles instead of the configured ones.
func WithObstacles(obs []Obstacle) Option {
	return func(o *gameOptions) {
		o.obstacles = obs
		o.fixedObst = true
	}
}

// WithAgents places exactly the given agents instead of random placement.
// IDs are reassigned in slice order.
func WithAgents(agents []systems.AgentState) Option {
	return func(o *gameOptions) { o.agents = agents }
}

// WithClock replaces time.Now for elapsed-time bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(o *gameOptions) { o.now = now }
}

// Game holds one game: the agents in an ark world plus everything a tick needs.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Entity mappers
	agentMapper *ecs.Map3[components.Agent, components.Position, components.Velocity]
	agentFilter *ecs.Filter3[components.Agent, components.Position, components.Velocity]
	agentMap    *ecs.Map1[components.Agent]
	posMap      *ecs.Map1[components.Position]
	velMap      *ecs.Map1[components.Velocity]
	entities    []ecs.Entity // Indexed by agent ID

	arena     *systems.Arena
	obstacles []Obstacle
	dom       *systems.Domination
	grid      *systems.KindGrid
	mover     systems.Mover
	contact   float32
	ffEnabled bool
	stallAt   int // Quiet ticks that stall the game, 0 = never
	kindNames []string

	// Per-tick scratch, reused across ticks
	snapshot    []systems.AgentState
	decisions   []systems.Decision
	moves       []components.Position
	conversions []systems.Conversion

	state      State
	quietTicks int    // Consecutive ticks without a conversion
	abandoned  string // End reason when the driver stopped the game early

	emitter *telemetry.Emitter
	perf    *telemetry.PerfCollector
	now     func() time.Time
}

// NewGame sets up a game from a finalized config. Random obstacles (when
// configured) and agent positions are drawn from the seeded generator, so a
// seed fully determines the game.
func NewGame(cfg *config.Config, seed int64, opts ...Option) (*Game, error) {
	var o gameOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.now == nil {
		o.now = time.Now
	}

	d := &cfg.Derived
	beats := make([]components.Kind, len(d.Beats))
	for i, b := range d.Beats {
		beats[i] = components.Kind(b)
	}
	dom, err := systems.NewDomination(beats)
	if err != nil {
		return nil, fmt.Errorf("building domination table: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))

	obstacles := o.obstacles
	if !o.fixedObst {
		obstacles = ResolveObstacles(cfg, rng)
	}
	rects := make([]systems.Rect, len(obstacles))
	for i, ob := range obstacles {
		rects[i] = ob.Rect
	}
	arena := systems.NewArena(d.ArenaW32, d.ArenaH32, d.Radius32, rects)

	var agents []systems.AgentState
	if o.agents != nil {
		agents = make([]systems.AgentState, len(o.agents))
		for i, a := range o.agents {
			if int(a.Kind) >= dom.Len() {
				return nil, fmt.Errorf("agent %d: kind %d out of range", i, a.Kind)
			}
			agents[i] = systems.AgentState{ID: int32(i), Kind: a.Kind, X: a.X, Y: a.Y}
		}
	} else {
		agents, err = systems.PlaceAgents(rng, arena, d.UnitCounts, float32(cfg.Units.MinSeparation))
		if err != nil {
			return nil, err
		}
	}

	world := ecs.NewWorld()
	g := &Game{
		world:       world,
		rng:         rng,
		agentMapper: ecs.NewMap3[components.Agent, components.Position, components.Velocity](world),
		agentFilter: ecs.NewFilter3[components.Agent, components.Position, components.Velocity](world),
		agentMap:    ecs.NewMap1[components.Agent](world),
		posMap:      ecs.NewMap1[components.Position](world),
		velMap:      ecs.NewMap1[components.Velocity](world),
		entities:    make([]ecs.Entity, len(agents)),
		arena:       arena,
		obstacles:   obstacles,
		dom:         dom,
		grid:        systems.NewKindGrid(d.ArenaW32, d.ArenaH32, d.CellSize32, dom.Len()),
		mover:       systems.Mover{Arena: arena, Speed: d.Speed32, Jitter: d.Jitter32},
		contact:     d.Contact32,
		ffEnabled:   cfg.Timing.FastForward,
		stallAt:     cfg.Session.StallSteps,
		kindNames:   cfg.KindNames(),
		snapshot:    make([]systems.AgentState, len(agents)),
		decisions:   make([]systems.Decision, 0, len(agents)),
		moves:       make([]components.Position, 0, len(agents)),
		emitter:     o.emitter,
		perf:        o.perf,
		now:         o.now,
		state: State{
			KindCounts: make([]int, dom.Len()),
			Population: len(agents),
			Seed:       seed,
			Phase:      PhaseRunning,
		},
	}

	for _, a := range agents {
		agent := components.Agent{ID: a.ID, Kind: a.Kind}
		pos := components.Position{X: a.X, Y: a.Y}
		vel := components.Velocity{}
		g.entities[a.ID] = g.agentMapper.NewEntity(&agent, &pos, &vel)
		g.state.KindCounts[a.Kind]++
	}

	// A single populated kind has already won.
	if g.state.Remaining() == 1 {
		g.state.Phase = PhaseEnded
	}

	return g, nil
}

// ResolveObstacles returns the configured obstacle blocks, or random blocks
// drawn from rng when the config asks for generated obstacles.
func ResolveObstacles(cfg *config.Config, rng *rand.Rand) []Obstacle {
	if cfg.RandomObstacles() {
		rects := systems.GenerateObstacles(rng, cfg.Derived.ArenaW32, cfg.Derived.ArenaH32,
			cfg.Obstacles.Count, cfg.Derived.Radius32, cfg.Obstacles.MaxCoverage)
		obs := make([]Obstacle, len(rects))
		for i, r := range rects {
			obs[i] = Obstacle{Rect: r}
		}
		return obs
	}
	obs := make([]Obstacle, len(cfg.Derived.Blocks))
	for i, b := range cfg.Derived.Blocks {
		obs[i] = Obstacle{
			Rect:  systems.Rect{X: float32(b.Left), Y: float32(b.Top), W: float32(b.Width), H: float32(b.Height)},
			Color: b.Color,
		}
	}
	return obs
}

// Step runs one tick: snapshot, select, move, contact, state update, emit.
// Step on a finished game does nothing.
func (g *Game) Step() StepResult {
	if g.Over() {
		return StepResult{Ended: true}
	}
	if g.state.StartTime.IsZero() {
		g.state.StartTime = g.now()
	}
	if g.perf != nil {
		g.perf.StartTick()
	}

	g.startPhase(telemetry.PhaseSnapshot)
	g.snapshot = g.readAgents(g.snapshot)
	g.grid.Rebuild(g.snapshot)

	g.startPhase(telemetry.PhaseSelect)
	g.decisions = systems.SelectTargets(g.decisions, g.snapshot, g.dom, g.grid)

	g.startPhase(telemetry.PhaseMove)
	g.moves = g.mover.Integrate(g.moves, g.snapshot, g.decisions, g.rng)
	g.applyMoves()

	g.startPhase(telemetry.PhaseContact)
	g.grid.Rebuild(g.snapshot)
	g.conversions = systems.ResolveContacts(g.conversions, g.snapshot, g.dom, g.grid, g.contact)
	systems.ApplyConversions(g.snapshot, g.conversions, g.state.KindCounts)
	for _, c := range g.conversions {
		g.agentMap.Get(g.entities[c.Index]).Kind = c.To
	}
	if len(g.conversions) > 0 {
		g.quietTicks = 0
	} else {
		g.quietTicks++
	}

	g.startPhase(telemetry.PhaseState)
	g.state.Step++
	g.state.Elapsed = g.now().Sub(g.state.StartTime)
	g.updateState()

	g.startPhase(telemetry.PhaseTelemetry)
	res := StepResult{Converted: len(g.conversions), Ended: g.state.Phase == PhaseEnded}
	if g.emitter != nil {
		res.Emitted = g.emitter.Tick(g.state.Step, res.Converted > 0, g.state.KindCounts)
		if res.Ended {
			g.emitter.End(g.Summary())
		}
	}

	if g.perf != nil {
		g.perf.EndTick()
	}
	return res
}

func (g *Game) startPhase(name string) {
	if g.perf != nil {
		g.perf.StartPhase(name)
	}
}

// readAgents copies every agent out of the world into dst, indexed by ID.
func (g *Game) readAgents(dst []systems.AgentState) []systems.AgentState {
	if cap(dst) < len(g.entities) {
		dst = make([]systems.AgentState, len(g.entities))
	}
	dst = dst[:len(g.entities)]

	query := g.agentFilter.Query()
	for query.Next() {
		a, pos, _ := query.Get()
		dst[a.ID] = systems.AgentState{ID: a.ID, Kind: a.Kind, X: pos.X, Y: pos.Y}
	}
	return dst
}

// applyMoves writes the integrated positions to the world and the snapshot.
// Velocity holds the displacement actually taken.
func (g *Game) applyMoves() {
	query := g.agentFilter.Query()
	for query.Next() {
		a, pos, vel := query.Get()
		m := g.moves[a.ID]
		vel.X = m.X - pos.X
		vel.Y = m.Y - pos.Y
		pos.X, pos.Y = m.X, m.Y
	}
	for i := range g.snapshot {
		g.snapshot[i].X = g.moves[i].X
		g.snapshot[i].Y = g.moves[i].Y
	}
}

// updateState advances the state machine from the current counts.
func (g *Game) updateState() {
	var present [2]components.Kind
	remaining := 0
	for k, c := range g.state.KindCounts {
		if c > 0 {
			if remaining < len(present) {
				present[remaining] = components.Kind(k)
			}
			remaining++
		}
	}

	switch {
	case remaining == 1:
		g.state.Phase = PhaseEnded
	case remaining == 2 && g.ffEnabled && g.state.Phase == PhaseRunning:
		a, b := present[0], present[1]
		if g.dom.Defeats(a, b) || g.dom.Defeats(b, a) {
			g.state.Phase = PhaseFastForward
			g.state.FastForward = true
		}
	}
}

// Stalled reports whether the game can no longer be expected to end: no
// surviving kind can convert another surviving kind (only possible with more
// than three kinds), or session.stall_steps ticks passed without a conversion,
// as when chasers are wedged against obstacles and their prey against walls.
func (g *Game) Stalled() bool {
	if g.state.Phase == PhaseEnded {
		return false
	}
	if g.stallAt > 0 && g.quietTicks >= g.stallAt {
		return true
	}
	for k, c := range g.state.KindCounts {
		if c > 0 && g.state.KindCounts[g.dom.Beats(components.Kind(k))] > 0 {
			return false
		}
	}
	return true
}

// Abandon stops an unfinished game and emits its summary with the reason.
func (g *Game) Abandon(reason string) {
	if g.Over() {
		return
	}
	g.abandoned = reason
	if g.emitter != nil {
		g.emitter.End(g.Summary())
	}
}

// Over reports whether the game ended or was abandoned.
func (g *Game) Over() bool {
	return g.state.Phase == PhaseEnded || g.abandoned != ""
}

// Summary returns the end-of-game record for the current state.
func (g *Game) Summary() telemetry.GameSummary {
	s := telemetry.GameSummary{
		ElapsedSeconds: g.state.Elapsed.Seconds(),
		TotalSteps:     g.state.Step,
		Seed:           g.state.Seed,
		EndedAt:        g.now(),
	}
	if k, ok := g.state.Winner(); ok {
		s.FinalKind = g.kindNames[k]
		s.Reason = telemetry.EndWinner
	} else {
		s.Reason = g.abandoned
	}
	return s
}

// State returns a copy of the current game state.
func (g *Game) State() State {
	return g.state.clone()
}

// Agents returns every agent's kind and position, indexed by ID.
func (g *Game) Agents() []systems.AgentState {
	return g.readAgents(nil)
}

// Inspect returns one agent's kind and position, the displacement it took
// last tick and the decision behind it.
func (g *Game) Inspect(id int32) (systems.AgentState, components.Velocity, systems.Decision, bool) {
	if id < 0 || int(id) >= len(g.entities) {
		return systems.AgentState{}, components.Velocity{}, systems.Decision{}, false
	}
	e := g.entities[id]
	a := g.agentMap.Get(e)
	pos := g.posMap.Get(e)
	d := systems.Decision{Action: systems.ActionHold, Target: -1}
	if int(id) < len(g.decisions) {
		d = g.decisions[id]
	}
	return systems.AgentState{ID: a.ID, Kind: a.Kind, X: pos.X, Y: pos.Y}, *g.velMap.Get(e), d, true
}

// CountKinds recounts kinds from the world.
func (g *Game) CountKinds() []int {
	counts := make([]int, g.dom.Len())
	query := g.agentFilter.Query()
	for query.Next() {
		a, _, _ := query.Get()
		counts[a.Kind]++
	}
	return counts
}

// Obstacles returns the game's obstacles.
func (g *Game) Obstacles() []Obstacle {
	return g.obstacles
}

// Arena returns the game's arena geometry.
func (g *Game) Arena() *systems.Arena {
	return g.arena
}
