package game

import (
	"context"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rpsarena/camera"
	"github.com/pthm-cable/rpsarena/config"
	"github.com/pthm-cable/rpsarena/inspector"
	"github.com/pthm-cable/rpsarena/renderer"
	"github.com/pthm-cable/rpsarena/systems"
	"github.com/pthm-cable/rpsarena/telemetry"
	"github.com/pthm-cable/rpsarena/ui"
)

// maxTicksPerFrame bounds catch-up work when the delay is shorter than a frame.
const maxTicksPerFrame = 50

// perfPanelInset is the perf panel's distance from the bottom of the arena view.
const perfPanelInset = 160

type appMode uint8

const (
	modeCountdown appMode = iota
	modePlaying
	modePostgame
)

// App is the windowed front end over a Session. The raylib window must be
// open before NewApp is called.
type App struct {
	cfg     *config.Config
	session *Session
	perf    *telemetry.PerfCollector

	cam       *camera.Camera
	bg        *renderer.Background
	hud       *ui.HUD
	stats     *ui.StatsPanel
	perfPanel *ui.PerfPanel
	controls  *ui.ControlBar
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector

	// Per-kind display
	kindColors []rl.Color
	kindInk    []rl.Color
	initials   []string
	names      []string

	obstacleColors []rl.Color // Resolved for the current game
	agents         []systems.AgentState

	screenW, screenH float32 // Arena viewport, excludes the control bar

	paused    bool
	delayMS   float32
	lastTick  time.Time
	mode      appMode
	modeUntil time.Time
	done      bool
}

// NewApp builds the renderers and panels for a session.
func NewApp(cfg *config.Config, session *Session, perf *telemetry.PerfCollector) *App {
	d := &cfg.Derived
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight()) - ui.ControlBarHeight

	a := &App{
		cfg:       cfg,
		session:   session,
		perf:      perf,
		cam:       camera.New(w, h, d.ArenaW32, d.ArenaH32),
		bg:        renderer.NewBackground(cfg.Screen.Background),
		hud:       ui.NewHUD(),
		stats:     ui.NewStatsPanel(int32(w)-240, 10, 230),
		perfPanel: ui.NewPerfPanel(10, int32(h)-perfPanelInset),
		controls:  ui.NewControlBar(h, w),
		overlays:  ui.NewOverlayRegistry(),
		inspector: inspector.NewInspector(int32(w), int32(h)),
		screenW:   w,
		screenH:   h,
		delayMS:   float32(d.Delay / time.Millisecond),
	}
	a.overlays.SetEnabled(ui.OverlayStats, cfg.Screen.ShowStats)

	for _, k := range cfg.Kinds {
		c := renderer.ColorOr(k.Color, rl.Gray)
		a.kindColors = append(a.kindColors, c)
		a.kindInk = append(a.kindInk, renderer.ContrastColor(c))
		r, _ := utf8.DecodeRuneInString(k.Name)
		a.initials = append(a.initials, string(r))
		a.names = append(a.names, k.Name)
	}

	a.beginGame(time.Now())
	return a
}

// Run loops until the session is done, the window closes or ctx is
// cancelled. An unfinished game is abandoned on the way out.
func (a *App) Run(ctx context.Context) error {
	defer a.bg.Unload()

	for !a.done && !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			a.session.Game().Abandon(telemetry.EndCancelled)
			return err
		}
		if err := a.update(time.Now()); err != nil {
			return err
		}
		act := a.draw()
		a.applyControls(act)
	}
	a.session.Game().Abandon(telemetry.EndCancelled)
	return nil
}

// beginGame resets per-game display state and starts the countdown.
func (a *App) beginGame(now time.Time) {
	g := a.session.Game()
	a.inspector.Deselect()
	a.obstacleColors = a.obstacleColors[:0]
	for _, ob := range g.Obstacles() {
		a.obstacleColors = append(a.obstacleColors, renderer.ColorOr(ob.Color, a.bg.Contrast()))
	}

	if cd := a.cfg.Derived.Countdown; cd > 0 {
		a.mode = modeCountdown
		a.modeUntil = now.Add(cd)
		return
	}
	a.mode = modePlaying
	a.lastTick = now
}

func (a *App) update(now time.Time) error {
	a.handleInput(now)
	if a.perf != nil {
		a.perf.RecordFrame()
	}

	switch a.mode {
	case modeCountdown:
		if !now.Before(a.modeUntil) {
			a.mode = modePlaying
			a.lastTick = now
		}
	case modePlaying:
		if a.paused {
			a.lastTick = now
			return nil
		}
		a.runTicks(now)
	case modePostgame:
		if now.Before(a.modeUntil) {
			return nil
		}
		more, err := a.session.Advance()
		if err != nil {
			return err
		}
		if !more {
			slog.Info("session complete", "games", a.session.GamesPlayed())
			a.done = true
			return nil
		}
		a.beginGame(now)
	}
	return nil
}

// runTicks steps the game once per elapsed delay, at most maxTicksPerFrame
// times. Backlog beyond that is dropped.
func (a *App) runTicks(now time.Time) {
	delay := a.tickDelay()
	for n := 0; n < maxTicksPerFrame && now.Sub(a.lastTick) >= delay; n++ {
		a.lastTick = a.lastTick.Add(delay)
		if res := a.session.Step(); res.Ended {
			a.endGame(now)
			return
		}
		delay = a.tickDelay()
	}
	if now.Sub(a.lastTick) > delay {
		a.lastTick = now
	}
}

// tickDelay is the slider delay, or the minimum once fast-forward started.
func (a *App) tickDelay() time.Duration {
	if a.session.Game().state.FastForward {
		return a.cfg.Derived.MinDelay
	}
	return time.Duration(a.delayMS * float32(time.Millisecond))
}

func (a *App) endGame(now time.Time) {
	a.mode = modePostgame
	a.modeUntil = now.Add(a.cfg.Derived.PostgameDelay)
}

// skipGame abandons the current game and moves straight to the next.
func (a *App) skipGame(now time.Time) {
	if a.mode == modePostgame {
		a.modeUntil = now
		return
	}
	a.session.Game().Abandon(telemetry.EndCancelled)
	a.mode = modePostgame
	a.modeUntil = now
}

func (a *App) applyControls(act ui.ControlAction) {
	if act.TogglePause {
		a.paused = !a.paused
	}
	if act.ResetView {
		a.cam.Reset()
	}
	if act.SkipGame {
		a.skipGame(time.Now())
	}
	a.delayMS = act.DelayMS
}

// statsData collects what the HUD and stats panel show this frame.
func (a *App) statsData() *ui.StatsData {
	g := a.session.Game()
	st := &g.state
	d := &ui.StatsData{
		Game:       a.session.GamesPlayed() + 1,
		Seed:       st.Seed,
		Step:       st.Step,
		Phase:      st.Phase.String(),
		Paused:     a.paused,
		FPS:        rl.GetFPS(),
		Delay:      a.tickDelay(),
		Elapsed:    st.Elapsed,
		Population: st.Population,
		Obstacles:  len(g.obstacles),
		Kinds:      make([]ui.KindStat, len(st.KindCounts)),
	}
	for k, n := range st.KindCounts {
		d.Kinds[k] = ui.KindStat{Name: a.names[k], Color: a.kindColors[k], Count: n}
	}
	return d
}

// agentView describes the inspected agent for the inspector panel.
func (a *App) agentView(id int32) (inspector.AgentView, bool) {
	g := a.session.Game()
	ag, vel, d, ok := g.Inspect(id)
	if !ok {
		return inspector.AgentView{}, false
	}
	v := inspector.AgentView{
		ID:      ag.ID,
		Kind:    a.names[ag.Kind],
		X:       ag.X,
		Y:       ag.Y,
		Heading: float32(math.Atan2(float64(vel.Y), float64(vel.X))),
		Action:  d.Action.String(),
		Target:  d.Target,
		Color:   a.kindColors[ag.Kind],
	}
	if speed := a.cfg.Derived.Speed32; speed > 0 {
		v.Speed = float32(math.Hypot(float64(vel.X), float64(vel.Y))) / speed
	}
	if d.Target >= 0 {
		t, _, _, _ := g.Inspect(d.Target)
		v.TargetKind = a.names[t.Kind]
		v.Distance = float32(math.Hypot(float64(t.X-ag.X), float64(t.Y-ag.Y)))
	}
	return v, true
}
