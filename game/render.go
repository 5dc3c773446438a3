package game

import (
	"fmt"
	"math"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rpsarena/systems"
	"github.com/pthm-cable/rpsarena/telemetry"
	"github.com/pthm-cable/rpsarena/ui"
)

const baseControls = "Space pause  N next game  Click inspect  Wheel zoom  Right-drag pan  Home reset view  F11 fullscreen"

// draw renders one frame and returns the control bar actions.
func (a *App) draw() ui.ControlAction {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g := a.session.Game()
	a.agents = g.readAgents(a.agents)

	rl.BeginScissorMode(0, 0, int32(a.screenW), int32(a.screenH))
	x0, y0 := a.cam.WorldToScreen(0, 0)
	x1, y1 := a.cam.WorldToScreen(g.arena.Width, g.arena.Height)
	a.bg.Draw(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0})

	if a.overlays.IsEnabled(ui.OverlayGrid) {
		a.drawGrid(g)
	}
	a.drawObstacles(g)
	if a.overlays.IsEnabled(ui.OverlayTargets) {
		a.drawTargets(g)
	}
	if a.overlays.IsEnabled(ui.OverlayContact) {
		a.drawContact(g)
	}
	a.drawAgents()
	a.drawSelection()
	rl.EndScissorMode()

	a.drawPanels()

	act := a.controls.Draw(a.paused, a.delayMS)
	rl.EndDrawing()
	return act
}

func (a *App) drawGrid(g *Game) {
	cell := a.cfg.Derived.CellSize32
	color := rl.Fade(a.bg.Contrast(), 0.15)
	for x := float32(0); x <= g.arena.Width; x += cell {
		sx0, sy0 := a.cam.WorldToScreen(x, 0)
		sx1, sy1 := a.cam.WorldToScreen(x, g.arena.Height)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, color)
	}
	for y := float32(0); y <= g.arena.Height; y += cell {
		sx0, sy0 := a.cam.WorldToScreen(0, y)
		sx1, sy1 := a.cam.WorldToScreen(g.arena.Width, y)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, color)
	}
}

func (a *App) drawObstacles(g *Game) {
	for i, ob := range g.obstacles {
		sx, sy := a.cam.WorldToScreen(ob.X, ob.Y)
		rl.DrawRectangleRec(rl.Rectangle{
			X: sx, Y: sy,
			Width: a.cam.Scale(ob.W), Height: a.cam.Scale(ob.H),
		}, a.obstacleColors[i])
	}
}

// drawTargets links every agent to the agent it chased or fled last tick.
func (a *App) drawTargets(g *Game) {
	for i, d := range g.decisions {
		if d.Action == systems.ActionHold || int(d.Target) >= len(a.agents) || i >= len(a.agents) {
			continue
		}
		self, other := &a.agents[i], &a.agents[d.Target]
		sx, sy := a.cam.WorldToScreen(self.X, self.Y)
		tx, ty := a.cam.WorldToScreen(other.X, other.Y)
		color := rl.Fade(a.kindColors[self.Kind], 0.5)
		if d.Action == systems.ActionFlee {
			color = rl.Fade(rl.Gray, 0.4)
		}
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: tx, Y: ty}, color)
	}
}

func (a *App) drawContact(g *Game) {
	r := a.cam.Scale(g.contact)
	color := rl.Fade(a.bg.Contrast(), 0.3)
	for i := range a.agents {
		ag := &a.agents[i]
		if !a.cam.IsVisible(ag.X, ag.Y, g.contact) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(ag.X, ag.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), r, color)
	}
}

// drawAgents draws each agent as a disc in its kind colour with the kind's
// initial when the disc is large enough to read.
func (a *App) drawAgents() {
	radius := a.cfg.Derived.Radius32
	r := a.cam.Scale(radius)
	fontSize := int32(math.Round(float64(r * 1.2)))
	for i := range a.agents {
		ag := &a.agents[i]
		if !a.cam.IsVisible(ag.X, ag.Y, radius) {
			continue
		}
		sx, sy := a.cam.WorldToScreen(ag.X, ag.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, a.kindColors[ag.Kind])
		if fontSize >= 8 {
			label := strings.ToUpper(a.initials[ag.Kind])
			tw := rl.MeasureText(label, fontSize)
			rl.DrawText(label, int32(sx)-tw/2, int32(sy)-fontSize/2, fontSize, a.kindInk[ag.Kind])
		}
	}
}

// drawSelection rings the agent shown in the inspector.
func (a *App) drawSelection() {
	id, ok := a.inspector.Selected()
	if !ok || int(id) >= len(a.agents) {
		return
	}
	ag := &a.agents[id]
	sx, sy := a.cam.WorldToScreen(ag.X, ag.Y)
	rl.DrawCircleLines(int32(sx), int32(sy), a.cam.Scale(a.cfg.Derived.Radius32)+4, rl.Orange)
}

func (a *App) drawPanels() {
	data := a.statsData()
	text := a.bg.Contrast()
	a.hud.Draw(data, text)

	if a.overlays.IsEnabled(ui.OverlayStats) {
		a.stats.Draw(data)
	}
	if a.perf != nil && a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perfPanel.Draw(a.perf.Stats())
	}
	if id, ok := a.inspector.Selected(); ok {
		if view, ok := a.agentView(id); ok {
			a.inspector.Draw(view)
		}
	}
	if a.overlays.IsEnabled(ui.OverlayControls) {
		a.hud.DrawControls(int32(a.screenH)-20, a.overlays.Legend(), text)
		a.hud.DrawControls(int32(a.screenH), baseControls, text)
	}

	w, h := int32(a.screenW), int32(a.screenH)
	switch a.mode {
	case modeCountdown:
		left := time.Until(a.modeUntil).Seconds()
		a.hud.DrawBanner(fmt.Sprintf("Game %d", data.Game), fmt.Sprintf("starting in %d", int(math.Ceil(left))), w, h)
	case modePostgame:
		title, subtitle := a.endBanner(a.session.Game().Summary())
		a.hud.DrawBanner(title, subtitle, w, h)
	}
}

// endBanner describes how a finished game ended.
func (a *App) endBanner(s telemetry.GameSummary) (title, subtitle string) {
	if s.Reason == telemetry.EndWinner {
		return s.FinalKind + " wins!", fmt.Sprintf("%d steps in %.1fs", s.TotalSteps, s.ElapsedSeconds)
	}
	return "Game abandoned", fmt.Sprintf("%s after %d steps", s.Reason, s.TotalSteps)
}
