package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rpsarena/telemetry"
)

// KindStat is one kind's display name, colour and live count.
type KindStat struct {
	Name  string
	Color rl.Color
	Count int
}

// StatsData holds everything the HUD and stats panel show.
type StatsData struct {
	Game       int
	Seed       int64
	Step       int
	Phase      string
	Paused     bool
	FPS        int32
	Delay      time.Duration
	Elapsed    time.Duration
	Population int
	Obstacles  int
	Kinds      []KindStat
}

// Remaining returns the number of kinds still present.
func (d *StatsData) Remaining() int {
	n := 0
	for _, k := range d.Kinds {
		if k.Count > 0 {
			n++
		}
	}
	return n
}

// Share returns kind k's fraction of the population.
func (d *StatsData) Share(k int) float32 {
	if d.Population == 0 || k < 0 || k >= len(d.Kinds) {
		return 0
	}
	return float32(d.Kinds[k].Count) / float32(d.Population)
}

// CountsLine formats the per-kind counts for the status line.
func (d *StatsData) CountsLine() string {
	parts := make([]string, len(d.Kinds))
	for i, k := range d.Kinds {
		parts[i] = fmt.Sprintf("%s %d", k.Name, k.Count)
	}
	return strings.Join(parts, "  ")
}

// gameSection describes the game block of the stats panel.
var gameSection = SectionDescriptor{
	ID:    "game",
	Title: "Game",
	Fields: []FieldDescriptor{
		{ID: "game", Label: "Game", Widget: WidgetText, TextGetter: func(d *StatsData) string { return fmt.Sprint(d.Game) }},
		{ID: "seed", Label: "Seed", Widget: WidgetText, TextGetter: func(d *StatsData) string { return fmt.Sprint(d.Seed) }},
		{ID: "step", Label: "Step", Widget: WidgetText, TextGetter: func(d *StatsData) string { return fmt.Sprint(d.Step) }},
		{ID: "phase", Label: "Phase", Widget: WidgetText, TextGetter: func(d *StatsData) string { return d.Phase }},
		{ID: "elapsed", Label: "Elapsed", Widget: WidgetText, Format: "%.1fs", Getter: func(d *StatsData) float32 { return float32(d.Elapsed.Seconds()) }},
		{ID: "delay", Label: "Delay", Widget: WidgetText, TextGetter: func(d *StatsData) string { return d.Delay.String() }},
		{ID: "obstacles", Label: "Blocks", Widget: WidgetText, Format: "%.0f", Getter: func(d *StatsData) float32 { return float32(d.Obstacles) },
			Visible: func(d *StatsData) bool { return d.Obstacles > 0 }},
		{ID: "remaining", Label: "Kinds left", Widget: WidgetText, Format: "%.0f", Getter: func(d *StatsData) float32 { return float32(d.Remaining()) }},
	},
}

// StatsPanel renders the game block and a population bar per kind.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *StatsPanel) Draw(data *StatsData) {
	r := p.renderer
	pad := r.Theme.Padding
	kindsHeight := r.Theme.LineHeight + 4 + int32(len(data.Kinds))*(r.Theme.LineHeight+2)
	height := pad*2 + r.SectionHeight(gameSection, data) + kindsHeight

	r.DrawPanel(p.x, p.y, p.width, height)
	x := p.x + pad
	y := r.DrawSection(x, p.y+pad, gameSection, data, p.width-2*pad)

	y = r.DrawSectionHeader(x, y, "Population")
	for i, k := range data.Kinds {
		y = r.DrawBar(x, y, k.Name, data.Share(i), k.Color, fmt.Sprint(k.Count), p.width-2*pad)
	}
}

// HUD renders the status line, banners and control legend.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status line in the top-left corner.
func (h *HUD) Draw(data *StatsData, textColor rl.Color) {
	rl.DrawText(
		fmt.Sprintf("Game %d | Step %d | FPS %d", data.Game, data.Step, data.FPS),
		10, 10, 16, textColor,
	)
	rl.DrawText(data.CountsLine(), 10, 30, 16, textColor)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 50, 16, rl.Orange)
	} else if data.Phase == "fast_forward" {
		rl.DrawText(">> fast forward", 10, 50, 16, rl.Orange)
	}
}

// DrawBanner renders a centred title with an optional subtitle.
func (h *HUD) DrawBanner(title, subtitle string, screenWidth, screenHeight int32) {
	const titleSize, subSize = 40, 20
	tw := rl.MeasureText(title, titleSize)
	sw := rl.MeasureText(subtitle, subSize)
	w := max(tw, sw) + 4*h.renderer.Theme.Padding
	bh := int32(titleSize + subSize + 40)
	x := (screenWidth - w) / 2
	y := (screenHeight - bh) / 2

	h.renderer.DrawPanel(x, y, w, bh)
	rl.DrawText(title, (screenWidth-tw)/2, y+12, titleSize, rl.RayWhite)
	if subtitle != "" {
		rl.DrawText(subtitle, (screenWidth-sw)/2, y+titleSize+22, subSize, rl.LightGray)
	}
}

// DrawControls renders the control legend above the given baseline.
func (h *HUD) DrawControls(baseline int32, controls string, color rl.Color) {
	rl.DrawText(controls, 10, baseline-20, 14, color)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := r.Theme.Padding*2 + 20 + 16 + int32(len(phases))*14
	r.DrawPanel(p.x, p.y, 230, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
