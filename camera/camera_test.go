package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsArena(t *testing.T) {
	tests := []struct {
		name           string
		vw, vh, ww, wh float32
		wantZoom       float32
	}{
		{"same size", 800, 800, 800, 800, 1},
		{"window larger", 1600, 1200, 800, 800, 1.5},
		{"wide arena", 800, 800, 1600, 400, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.vw, tt.vh, tt.ww, tt.wh)
			if !near(cam.Zoom, tt.wantZoom) {
				t.Errorf("zoom = %v, want %v", cam.Zoom, tt.wantZoom)
			}
			if cam.X != tt.ww/2 || cam.Y != tt.wh/2 {
				t.Errorf("center = (%v, %v), want arena centre", cam.X, cam.Y)
			}
			minX, minY, maxX, maxY := cam.VisibleWorldBounds()
			if minX > 0.01 || minY > 0.01 || maxX < tt.ww-0.01 || maxY < tt.wh-0.01 {
				t.Errorf("visible bounds (%v,%v)-(%v,%v) do not cover the arena", minX, minY, maxX, maxY)
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 800, 600)
	cam.ZoomAt(2.5, 300, 200)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInArena(t *testing.T) {
	cam := New(800, 800, 800, 800)

	// Fully zoomed out: panning is a no-op.
	cam.Pan(500, -300)
	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("fitted camera moved to (%v, %v)", cam.X, cam.Y)
	}

	cam.SetZoom(4)
	cam.Pan(-1e6, 1e6)
	minX, _, _, maxY := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(maxY, 800) {
		t.Errorf("view left the arena: minX=%v maxY=%v", minX, maxY)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(800, 800, 800, 800)
	wx, wy := cam.ScreenToWorld(400, 400)
	cam.ZoomAt(2, 400, 400)
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 400) || !near(sy, 400) {
		t.Errorf("point moved to (%v, %v)", sx, sy)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 800, 800, 800)
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %v, want max %v", cam.Zoom, cam.MaxZoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %v, want min %v", cam.Zoom, cam.MinZoom)
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(800, 800, 800, 800)
	cam.Resize(400, 400)
	if !near(cam.MinZoom, 0.5) || !near(cam.Zoom, 1) {
		t.Errorf("after shrink: min %v zoom %v, want 0.5 and 1", cam.MinZoom, cam.Zoom)
	}
	cam.Reset()
	if !near(cam.Zoom, 0.5) {
		t.Errorf("Reset zoom = %v, want 0.5", cam.Zoom)
	}
	if !cam.IsVisible(0, 0, 1) || cam.IsVisible(-50, -50, 1) {
		t.Error("visibility check wrong after reset")
	}
}
