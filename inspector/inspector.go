// Package inspector shows a panel with the live state of one clicked agent.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rpsarena/systems"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// AgentView is what the panel shows for the selected agent.
type AgentView struct {
	ID         int32    `inspect:"label"`
	Kind       string   `inspect:"label"`
	X          float32  `inspect:"label,fmt:%.1f"`
	Y          float32  `inspect:"label,fmt:%.1f"`
	Speed      float32  `inspect:"bar"` // Last displacement over motion.speed
	Heading    float32  `inspect:"angle"`
	Action     string   `inspect:"label"`
	Target     int32    `inspect:"label"` // -1 when holding
	TargetKind string   `inspect:"label,name:Target kind"`
	Distance   float32  `inspect:"label,fmt:%.1f"`
	Color      rl.Color `inspect:"skip"`
}

// Inspector manages agent selection and panel rendering.
type Inspector struct {
	selected     int32
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize keeps the panel anchored to the left edge below the HUD.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = 10
	ins.panelY = 80
}

// HandleClick processes a left click at screen (sx, sy), which maps to arena
// point (wx, wy). It selects the closest agent within hitRadius, closes the
// panel on its close button and ignores clicks inside the panel. It reports
// whether the click was consumed.
func (ins *Inspector) HandleClick(sx, sy, wx, wy float32, agents []systems.AgentState, hitRadius float32) bool {
	if ins.hasSelected {
		closeX := float32(ins.panelX + PanelWidth - 25)
		closeY := float32(ins.panelY + 5)
		if sx >= closeX && sx <= closeX+20 && sy >= closeY && sy <= closeY+20 {
			ins.Deselect()
			return true
		}
		if sx >= float32(ins.panelX) && sx <= float32(ins.panelX+PanelWidth) &&
			sy >= float32(ins.panelY) && sy <= float32(ins.panelY+ins.panelHeight()) {
			return true
		}
	}

	closest := int32(-1)
	closestDist := hitRadius * hitRadius
	for i := range agents {
		dx := wx - agents[i].X
		dy := wy - agents[i].Y
		if d := dx*dx + dy*dy; d <= closestDist {
			closest = agents[i].ID
			closestDist = d
		}
	}

	if closest < 0 {
		return false
	}
	ins.selected = closest
	ins.hasSelected = true
	return true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected agent ID.
func (ins *Inspector) Selected() (int32, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel.
func (ins *Inspector) Draw(view AgentView) {
	if !ins.hasSelected {
		return
	}

	panelHeight := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	// Header with the kind colour swatch
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawCircle(ins.panelX+PanelPadding+7, ins.panelY+HeaderHeight/2, 7, view.Color)
	rl.DrawText("AGENT", ins.panelX+PanelPadding+22, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range ExtractFields(view) {
		y += DrawField(x, y, f)
	}
}

// panelHeight computes the panel height from the AgentView layout.
func (ins *Inspector) panelHeight() int32 {
	height := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range ExtractFields(AgentView{}) {
		height += FieldHeight(f)
	}
	return height
}
