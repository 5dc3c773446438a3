package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rpsarena/ui"
)

// Camera input tuning.
const (
	keyPanSpeed  = 8   // Screen pixels per frame while an arrow key is held
	wheelZoomMul = 0.1 // Zoom change per wheel notch
)

// handleInput processes keyboard, mouse and window events.
func (a *App) handleInput(now time.Time) {
	a.handleResize()

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		switch key {
		case rl.KeySpace:
			a.paused = !a.paused
		case rl.KeyN:
			a.skipGame(now)
		case rl.KeyHome:
			a.cam.Reset()
		case rl.KeyF11:
			rl.ToggleFullscreen()
		default:
			if id, on, ok := a.overlays.HandleKeyPress(key); ok {
				slog.Debug("overlay toggled", "overlay", id, "enabled", on)
			}
		}
	}

	a.handleCameraInput()
}

// handleResize refits the camera and moves the control bar when the window
// size changes.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight()) - ui.ControlBarHeight
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h
	a.cam.Resize(w, h)
	a.controls.Resize(h, w)
	a.stats.SetPosition(int32(w)-240, 10)
	a.perfPanel.SetPosition(10, int32(h)-perfPanelInset)
	a.inspector.Resize(int32(w), int32(h))
}

// handleCameraInput handles zoom, pan and agent selection.
func (a *App) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overArena := mouse.Y < a.screenH

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && overArena {
		a.cam.ZoomAt(1+wheel*wheelZoomMul, mouse.X, mouse.Y)
	}

	if overArena && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		wx, wy := a.cam.ScreenToWorld(mouse.X, mouse.Y)
		hit := a.cfg.Derived.Radius32 + 5/a.cam.Zoom
		a.inspector.HandleClick(mouse.X, mouse.Y, wx, wy, a.agents, hit)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.cam.Pan(-d.X, -d.Y)
	}

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= keyPanSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += keyPanSpeed
	}
	if dx != 0 || dy != 0 {
		a.cam.Pan(dx, dy)
	}
}
