package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlBarHeight is the height reserved below the arena for the bar.
const ControlBarHeight = 36

// Delay slider bounds in milliseconds.
const (
	MinDelayMS = 1
	MaxDelayMS = 1000
)

// ControlAction reports what the user did on the control bar this frame.
type ControlAction struct {
	TogglePause bool
	ResetView   bool
	SkipGame    bool
	DelayMS     float32 // Slider value, clamped to [MinDelayMS, MaxDelayMS]
}

// ControlBar renders the raygui buttons and delay slider.
type ControlBar struct {
	renderer *Renderer
	y        float32
	width    float32
}

// NewControlBar creates a control bar along the bottom edge at y.
func NewControlBar(y, width float32) *ControlBar {
	return &ControlBar{renderer: NewRenderer(), y: y, width: width}
}

// Resize moves the bar after a window resize.
func (c *ControlBar) Resize(y, width float32) {
	c.y = y
	c.width = width
}

// Draw renders the bar and returns the user's actions.
func (c *ControlBar) Draw(paused bool, delayMS float32) ControlAction {
	c.renderer.DrawPanel(0, int32(c.y), int32(c.width), ControlBarHeight)

	act := ControlAction{DelayMS: delayMS}
	x := float32(8)
	y := c.y + 6
	h := float32(ControlBarHeight - 12)

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: h}, label) {
		act.TogglePause = true
	}
	x += 88
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: h}, "Next game") {
		act.SkipGame = true
	}
	x += 88
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: h}, "Reset view") {
		act.ResetView = true
	}
	x += 88

	rl.DrawText("Delay", int32(x), int32(y+5), 14, c.renderer.Theme.LabelColor)
	x += 48
	sliderW := c.width - x - 90
	if sliderW < 60 {
		sliderW = 60
	}
	v := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: h}, "", "",
		delayMS, MinDelayMS, MaxDelayMS)
	act.DelayMS = ClampDelay(v)
	rl.DrawText(fmt.Sprintf("%.0f ms", act.DelayMS), int32(x+sliderW+8), int32(y+5), 14, c.renderer.Theme.ValueColor)

	return act
}

// ClampDelay restricts a slider value to the allowed delay range.
func ClampDelay(ms float32) float32 {
	if ms < MinDelayMS {
		return MinDelayMS
	}
	if ms > MaxDelayMS {
		return MaxDelayMS
	}
	return ms
}
